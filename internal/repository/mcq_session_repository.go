package repository

import (
	"context"

	"school_edu_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionFilter 教师端会话查询条件，零值字段不参与过滤
type SessionFilter struct {
	ClassID   uint
	Subject   string
	Chapter   string
	StudentID uint
}

type MCQSessionRepository struct {
	DB *gorm.DB
}

func NewMCQSessionRepository(db *gorm.DB) *MCQSessionRepository {
	return &MCQSessionRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *MCQSessionRepository) WithTx(tx *gorm.DB) *MCQSessionRepository {
	return &MCQSessionRepository{DB: tx}
}

func (r *MCQSessionRepository) Create(ctx context.Context, session *model.MCQSession) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

// AppendQuestions 追加一批会话题目，已有记录不受影响
func (r *MCQSessionRepository) AppendQuestions(ctx context.Context, rows []model.MCQSessionQuestion) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit("Question").Create(&rows).Error
}

func (r *MCQSessionRepository) FindByID(ctx context.Context, id uint) (*model.MCQSession, error) {
	var s model.MCQSession
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FindWithQuestions 加载会话及全部题目（按展示顺序），题目被软删除时仍然返回
func (r *MCQSessionRepository) FindWithQuestions(ctx context.Context, id uint) (*model.MCQSession, error) {
	var s model.MCQSession
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Questions.Question", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AdvanceCursor 比较并交换游标，返回 false 表示已被其他请求推进
func (r *MCQSessionRepository) AdvanceCursor(ctx context.Context, sessionID uint, from, to int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.MCQSession{}).
		Where("id = ? AND last_question_index = ? AND end_time IS NULL", sessionID, from).
		Updates(map[string]interface{}{
			"last_question_index": to,
			"batch_count":         gorm.Expr("batch_count + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindOpenQuestion 同一题可能因回绕出现多次，取最早一条尚未作答的记录
func (r *MCQSessionRepository) FindOpenQuestion(ctx context.Context, sessionID, questionID uint) (*model.MCQSessionQuestion, error) {
	var sq model.MCQSessionQuestion
	err := r.DB.WithContext(ctx).
		Preload("Question", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Where("session_id = ? AND question_id = ? AND state <> ?", sessionID, questionID, model.AnswerAnswered).
		Order("id ASC").
		First(&sq).Error
	if err != nil {
		return nil, err
	}
	return &sq, nil
}

func (r *MCQSessionRepository) CountQuestionRows(ctx context.Context, sessionID, questionID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.MCQSessionQuestion{}).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Count(&count).Error
	return count, err
}

// TransitionQuestion 仅当记录仍处于 from 状态时更新，返回是否更新成功
func (r *MCQSessionRepository) TransitionQuestion(ctx context.Context, id uint, from model.AnswerState, updates map[string]interface{}) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.MCQSessionQuestion{}).
		Where("id = ? AND state = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *MCQSessionRepository) IncrementCounter(ctx context.Context, sessionID uint, column string) error {
	return r.DB.WithContext(ctx).Model(&model.MCQSession{}).
		Where("id = ?", sessionID).
		Update(column, gorm.Expr(column+" + 1")).Error
}

func (r *MCQSessionRepository) SaveFinal(ctx context.Context, s *model.MCQSession) error {
	return r.DB.WithContext(ctx).Model(&model.MCQSession{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"end_time":        s.EndTime,
			"duration":        s.Duration,
			"correct_count":   s.CorrectCount,
			"incorrect_count": s.IncorrectCount,
			"skipped_count":   s.SkippedCount,
		}).Error
}

func (r *MCQSessionRepository) ListByStudent(ctx context.Context, studentID uint, page, limit int) ([]model.MCQSession, int64, error) {
	return r.List(ctx, SessionFilter{StudentID: studentID}, page, limit)
}

// List 分页列出会话，最新的在前
func (r *MCQSessionRepository) List(ctx context.Context, f SessionFilter, page, limit int) ([]model.MCQSession, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.MCQSession{})
	if f.ClassID > 0 {
		query = query.Where("class_id = ?", f.ClassID)
	}
	if f.Subject != "" {
		query = query.Where("subject = ?", f.Subject)
	}
	if f.Chapter != "" {
		query = query.Where("chapter = ?", f.Chapter)
	}
	if f.StudentID > 0 {
		query = query.Where("student_id = ?", f.StudentID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.MCQSession
	err := query.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

// ListEnded 已结束的会话，按创建顺序返回
func (r *MCQSessionRepository) ListEnded(ctx context.Context, f SessionFilter) ([]model.MCQSession, error) {
	query := r.DB.WithContext(ctx).Where("end_time IS NOT NULL")
	if f.ClassID > 0 {
		query = query.Where("class_id = ?", f.ClassID)
	}
	if f.Subject != "" {
		query = query.Where("subject = ?", f.Subject)
	}
	if f.Chapter != "" {
		query = query.Where("chapter = ?", f.Chapter)
	}
	if f.StudentID > 0 {
		query = query.Where("student_id = ?", f.StudentID)
	}
	var sessions []model.MCQSession
	err := query.Order("id ASC").Find(&sessions).Error
	return sessions, err
}

// CountQuestionsBySession 每个会话累计下发的题目数
func (r *MCQSessionRepository) CountQuestionsBySession(ctx context.Context, sessionIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		SessionID uint
		Total     int
	}
	err := r.DB.WithContext(ctx).Model(&model.MCQSessionQuestion{}).
		Select("session_id, COUNT(*) AS total").
		Where("session_id IN ?", sessionIDs).
		Group("session_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.SessionID] = row.Total
	}
	return counts, nil
}
