package repository

import (
	"context"
	"time"

	"school_edu_backend/internal/model"

	"gorm.io/gorm"
)

// ProgressKey 唯一确定一条出题进度
type ProgressKey struct {
	StudentID uint
	Corpus
}

type MCQProgressRepository struct {
	DB *gorm.DB
}

func NewMCQProgressRepository(db *gorm.DB) *MCQProgressRepository {
	return &MCQProgressRepository{DB: db}
}

func (r *MCQProgressRepository) WithTx(tx *gorm.DB) *MCQProgressRepository {
	return &MCQProgressRepository{DB: tx}
}

func (r *MCQProgressRepository) where(ctx context.Context, k ProgressKey) *gorm.DB {
	return r.DB.WithContext(ctx).Where("student_id = ? AND class_id = ? AND subject = ? AND chapter = ?",
		k.StudentID, k.ClassID, k.Subject, k.Chapter)
}

// GetOrCreate 首次开始练习时以游标 0 创建进度
func (r *MCQProgressRepository) GetOrCreate(ctx context.Context, k ProgressKey, now time.Time) (*model.MCQProgress, error) {
	p := model.MCQProgress{
		StudentID:     k.StudentID,
		ClassID:       k.ClassID,
		Subject:       k.Subject,
		Chapter:       k.Chapter,
		LastAttempted: now,
	}
	err := r.where(ctx, k).FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MCQProgressRepository) Find(ctx context.Context, k ProgressKey) (*model.MCQProgress, error) {
	var p model.MCQProgress
	if err := r.where(ctx, k).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveCursor 写入游标，进度不存在时创建；wrapped 为 true 时完成轮数加一
func (r *MCQProgressRepository) SaveCursor(ctx context.Context, k ProgressKey, index int, wrapped bool, at time.Time) error {
	p, err := r.GetOrCreate(ctx, k, at)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"last_question_index": index,
		"last_attempted":      at,
	}
	if wrapped {
		updates["completed_cycles"] = gorm.Expr("completed_cycles + ?", 1)
	}
	return r.DB.WithContext(ctx).Model(&model.MCQProgress{}).
		Where("id = ?", p.ID).
		Updates(updates).Error
}

func (r *MCQProgressRepository) ListByStudent(ctx context.Context, studentID, classID uint, subject string) ([]model.MCQProgress, error) {
	query := r.DB.WithContext(ctx).Where("student_id = ?", studentID)
	if classID > 0 {
		query = query.Where("class_id = ?", classID)
	}
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	var rows []model.MCQProgress
	err := query.Order("last_attempted DESC").Find(&rows).Error
	return rows, err
}
