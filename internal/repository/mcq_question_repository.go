package repository

import (
	"context"

	"school_edu_backend/internal/model"

	"gorm.io/gorm"
)

// Corpus 一个题库分组
type Corpus struct {
	ClassID uint
	Subject string
	Chapter string
}

type ChapterCount struct {
	Chapter       string `json:"chapter"`
	QuestionCount int64  `json:"questionCount"`
}

type MCQQuestionRepository struct {
	DB *gorm.DB
}

func NewMCQQuestionRepository(db *gorm.DB) *MCQQuestionRepository {
	return &MCQQuestionRepository{DB: db}
}

// ListCorpus 按 id 升序返回题库，顺序即出题顺序
func (r *MCQQuestionRepository) ListCorpus(ctx context.Context, c Corpus) ([]model.MCQQuestion, error) {
	var questions []model.MCQQuestion
	err := r.DB.WithContext(ctx).
		Where("class_id = ? AND subject = ? AND chapter = ?", c.ClassID, c.Subject, c.Chapter).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

func (r *MCQQuestionRepository) CountCorpus(ctx context.Context, c Corpus) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.MCQQuestion{}).
		Where("class_id = ? AND subject = ? AND chapter = ?", c.ClassID, c.Subject, c.Chapter).
		Count(&count).Error
	return count, err
}

// CountByChapter 某班级某科目下各章节题目数
func (r *MCQQuestionRepository) CountByChapter(ctx context.Context, classID uint, subject string) ([]ChapterCount, error) {
	var rows []ChapterCount
	err := r.DB.WithContext(ctx).Model(&model.MCQQuestion{}).
		Select("chapter, COUNT(*) AS question_count").
		Where("class_id = ? AND subject = ?", classID, subject).
		Group("chapter").
		Order("chapter ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *MCQQuestionRepository) FindByID(ctx context.Context, id uint) (*model.MCQQuestion, error) {
	var q model.MCQQuestion
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *MCQQuestionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.MCQQuestion, error) {
	var questions []model.MCQQuestion
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&questions).Error
	return questions, err
}

// CreateBatch 在一个事务中按顺序插入，保证 id 顺序与传入顺序一致
func (r *MCQQuestionRepository) CreateBatch(ctx context.Context, questions []model.MCQQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateBatch 批量编辑，任一失败整体回滚；调用方负责确认题目存在
func (r *MCQQuestionRepository) UpdateBatch(ctx context.Context, questions []model.MCQQuestion) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			q := questions[i]
			err := tx.Model(&model.MCQQuestion{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
				"question_text":  q.QuestionText,
				"image_path":     q.ImagePath,
				"options":        q.Options,
				"correct_answer": q.CorrectAnswer,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
