package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const minOptions = 2

// MCQQuestionService 教师维护题库
type MCQQuestionService struct {
	QuestionRepo *repository.MCQQuestionRepository
}

func NewMCQQuestionService(questionRepo *repository.MCQQuestionRepository) *MCQQuestionService {
	return &MCQQuestionService{QuestionRepo: questionRepo}
}

func validateQuestion(text string, options []string, correct int) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: question_text is required", util.ErrValidation)
	}
	if len(options) < minOptions {
		return fmt.Errorf("%w: at least %d options are required", util.ErrValidation, minOptions)
	}
	for i, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option %d is blank", util.ErrValidation, i)
		}
	}
	if correct < 0 || correct >= len(options) {
		return fmt.Errorf("%w: correct_answer %d out of range [0,%d)", util.ErrValidation, correct, len(options))
	}
	return nil
}

func (s *MCQQuestionService) buildQuestion(req QuestionRequest, creatorID uint) (model.MCQQuestion, error) {
	if req.CorrectAnswer == nil {
		return model.MCQQuestion{}, fmt.Errorf("%w: correct_answer is required", util.ErrValidation)
	}
	if err := validateQuestion(req.QuestionText, req.Options, *req.CorrectAnswer); err != nil {
		return model.MCQQuestion{}, err
	}
	return model.MCQQuestion{
		ClassID:       req.ClassID,
		Subject:       strings.TrimSpace(req.Subject),
		Chapter:       strings.TrimSpace(req.Chapter),
		QuestionText:  req.QuestionText,
		ImagePath:     req.ImagePath,
		Options:       datatypes.JSONSlice[string](req.Options),
		CorrectAnswer: *req.CorrectAnswer,
		CreatedBy:     creatorID,
	}, nil
}

func (s *MCQQuestionService) CreateQuestion(ctx context.Context, creatorID uint, req QuestionRequest) (*model.MCQQuestion, error) {
	created, err := s.BulkCreate(ctx, creatorID, []QuestionRequest{req})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// BulkCreate 全部校验通过后在一个事务中按顺序写入
func (s *MCQQuestionService) BulkCreate(ctx context.Context, creatorID uint, reqs []QuestionRequest) ([]model.MCQQuestion, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no questions given", util.ErrValidation)
	}

	questions := make([]model.MCQQuestion, 0, len(reqs))
	for i, req := range reqs {
		q, err := s.buildQuestion(req, creatorID)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
	}

	if err := s.QuestionRepo.CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("create questions: %w", err)
	}

	logger.Log.Info("mcq questions created", zap.Uint("createdBy", creatorID), zap.Int("count", len(questions)))
	return questions, nil
}

// BulkUpdate 批量编辑已有题目，未提供的字段保持原值
func (s *MCQQuestionService) BulkUpdate(ctx context.Context, reqs []QuestionUpdateRequest) ([]model.MCQQuestion, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no questions given", util.ErrValidation)
	}

	ids := make([]uint, 0, len(reqs))
	for _, req := range reqs {
		ids = append(ids, req.ID)
	}
	existing, err := s.QuestionRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	byID := make(map[uint]model.MCQQuestion, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	updated := make([]model.MCQQuestion, 0, len(reqs))
	for i, req := range reqs {
		q, ok := byID[req.ID]
		if !ok {
			return nil, fmt.Errorf("question %d: %w", req.ID, util.ErrQuestionNotFound)
		}
		if req.QuestionText != nil {
			q.QuestionText = *req.QuestionText
		}
		if req.ImagePath != nil {
			q.ImagePath = *req.ImagePath
		}
		if req.Options != nil {
			q.Options = datatypes.JSONSlice[string](req.Options)
		}
		if req.CorrectAnswer != nil {
			q.CorrectAnswer = *req.CorrectAnswer
		}
		if err := validateQuestion(q.QuestionText, q.Options, q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		byID[q.ID] = q
		updated = append(updated, q)
	}

	if err := s.QuestionRepo.UpdateBatch(ctx, updated); err != nil {
		return nil, fmt.Errorf("update questions: %w", err)
	}

	logger.Log.Info("mcq questions updated", zap.Int("count", len(updated)))
	return updated, nil
}

func (s *MCQQuestionService) GetQuestion(ctx context.Context, id uint) (*model.MCQQuestion, error) {
	q, err := s.QuestionRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *MCQQuestionService) ListQuestions(ctx context.Context, c repository.Corpus) ([]model.MCQQuestion, error) {
	return s.QuestionRepo.ListCorpus(ctx, c)
}

func (s *MCQQuestionService) ListChapters(ctx context.Context, classID uint, subject string) ([]repository.ChapterCount, error) {
	return s.QuestionRepo.CountByChapter(ctx, classID, subject)
}
