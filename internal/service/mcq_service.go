package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"school_edu_backend/internal/config"
	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/locker"
	"school_edu_backend/pkg/logger"
	"school_edu_backend/pkg/monitoring"
	"school_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MCQService 选择题练习：出题批次、作答记录与会话结算
type MCQService struct {
	QuestionRepo *repository.MCQQuestionRepository
	SessionRepo  *repository.MCQSessionRepository
	ProgressRepo *repository.MCQProgressRepository
	Locker       locker.Locker
	DB           *gorm.DB

	batchSize atomic.Int64
	now       func() time.Time
}

func NewMCQService(
	questionRepo *repository.MCQQuestionRepository,
	sessionRepo *repository.MCQSessionRepository,
	progressRepo *repository.MCQProgressRepository,
	lk locker.Locker,
	db *gorm.DB,
	batchSize int,
) *MCQService {
	s := &MCQService{
		QuestionRepo: questionRepo,
		SessionRepo:  sessionRepo,
		ProgressRepo: progressRepo,
		Locker:       lk,
		DB:           db,
		now:          time.Now,
	}
	s.batchSize.Store(config.DefaultBatchSize)
	s.SetBatchSize(batchSize)
	return s
}

// SetBatchSize 配置热更新时调用，非正数忽略
func (s *MCQService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize.Store(int64(n))
	}
}

func (s *MCQService) BatchSize() int {
	return int(s.batchSize.Load())
}

func sessionLockKey(sessionID uint) string {
	return fmt.Sprintf("mcq:session:%d", sessionID)
}

func progressLockKey(k repository.ProgressKey) string {
	return fmt.Sprintf("mcq:progress:%d:%d:%s:%s", k.StudentID, k.ClassID, k.Subject, k.Chapter)
}

func corpusOf(s *model.MCQSession) repository.Corpus {
	return repository.Corpus{ClassID: s.ClassID, Subject: s.Subject, Chapter: s.Chapter}
}

func newSessionRows(sessionID uint, questions []model.MCQQuestion) []model.MCQSessionQuestion {
	rows := make([]model.MCQSessionQuestion, 0, len(questions))
	for i := range questions {
		rows = append(rows, model.MCQSessionQuestion{
			SessionID:  sessionID,
			QuestionID: questions[i].ID,
			State:      model.AnswerUnanswered,
			Question:   &questions[i],
		})
	}
	return rows
}

func (s *MCQService) findSession(ctx context.Context, sessionID uint, withQuestions bool) (*model.MCQSession, error) {
	var (
		session *model.MCQSession
		err     error
	)
	if withQuestions {
		session, err = s.SessionRepo.FindWithQuestions(ctx, sessionID)
	} else {
		session, err = s.SessionRepo.FindByID(ctx, sessionID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	return session, nil
}

// findOwnedSession 学生只能操作自己的会话
func (s *MCQService) findOwnedSession(ctx context.Context, studentID, sessionID uint, withQuestions bool) (*model.MCQSession, error) {
	session, err := s.findSession(ctx, sessionID, withQuestions)
	if err != nil {
		return nil, err
	}
	if session.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

// StartSession 开始新的练习会话，从进度游标处取第一批题目
func (s *MCQService) StartSession(ctx context.Context, studentID uint, req StartSessionRequest) (out *BatchOutcome, err error) {
	ctx, span := tracing.Start(ctx, "mcq.StartSession",
		attribute.Int64("student.id", int64(studentID)),
		attribute.String("mcq.chapter", req.Chapter),
	)
	defer func() { tracing.End(span, err) }()

	corpus := repository.Corpus{ClassID: req.ClassID, Subject: req.Subject, Chapter: req.Chapter}
	key := repository.ProgressKey{StudentID: studentID, Corpus: corpus}

	unlock, err := s.Locker.Lock(ctx, progressLockKey(key))
	if err != nil {
		return nil, fmt.Errorf("lock progress: %w", err)
	}
	defer unlock()

	questions, err := s.QuestionRepo.ListCorpus(ctx, corpus)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	now := s.now()
	var (
		session *model.MCQSession
		rows    []model.MCQSessionQuestion
		plan    batchPlan
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress, err := s.ProgressRepo.WithTx(tx).GetOrCreate(ctx, key, now)
		if err != nil {
			return err
		}

		plan = planStartBatch(len(questions), progress.LastQuestionIndex, s.BatchSize())

		session = &model.MCQSession{
			StudentID:         studentID,
			ClassID:           req.ClassID,
			Subject:           req.Subject,
			Chapter:           req.Chapter,
			StartTime:         now,
			LastQuestionIndex: plan.Next,
			BatchCount:        1,
		}
		if err := s.SessionRepo.WithTx(tx).Create(ctx, session); err != nil {
			return err
		}

		rows = newSessionRows(session.ID, plan.pick(questions))
		if err := s.SessionRepo.WithTx(tx).AppendQuestions(ctx, rows); err != nil {
			return err
		}
		return s.ProgressRepo.WithTx(tx).SaveCursor(ctx, key, plan.Next, plan.Wrapped, now)
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	monitoring.MCQSessionsTotal.WithLabelValues("started").Inc()
	monitoring.MCQQuestionsServed.Add(float64(len(rows)))
	logger.Log.Info("mcq session started",
		zap.Uint("sessionId", session.ID),
		zap.Uint("studentId", studentID),
		zap.String("chapter", req.Chapter),
		zap.Int("start", plan.Start),
		zap.Int("next", plan.Next),
		zap.Int("batch", len(rows)),
	)

	return &BatchOutcome{
		Session:   session,
		Rows:      rows,
		Total:     len(questions),
		Remaining: remaining(len(questions), plan.Next),
	}, nil
}

// NextBatch 为进行中的会话追加下一批题目。
// 题库每次重新读取，会话期间新增的题目会出现在后续批次中。
func (s *MCQService) NextBatch(ctx context.Context, studentID, sessionID uint) (out *BatchOutcome, err error) {
	ctx, span := tracing.Start(ctx, "mcq.NextBatch", attribute.Int64("mcq.session_id", int64(sessionID)))
	defer func() { tracing.End(span, err) }()

	unlock, err := s.Locker.Lock(ctx, sessionLockKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	session, err := s.findOwnedSession(ctx, studentID, sessionID, false)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, util.ErrSessionEnded
	}

	// 加锁顺序固定为 会话 -> 进度，与 StartSession 共用进度锁
	key := repository.ProgressKey{StudentID: session.StudentID, Corpus: corpusOf(session)}
	unlockProgress, err := s.Locker.Lock(ctx, progressLockKey(key))
	if err != nil {
		return nil, fmt.Errorf("lock progress: %w", err)
	}
	defer unlockProgress()

	questions, err := s.QuestionRepo.ListCorpus(ctx, corpusOf(session))
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	plan := planNextBatch(len(questions), session.LastQuestionIndex, s.BatchSize())
	now := s.now()
	var rows []model.MCQSessionQuestion

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions := s.SessionRepo.WithTx(tx)
		ok, err := sessions.AdvanceCursor(ctx, session.ID, session.LastQuestionIndex, plan.Next)
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrConcurrentUpdate
		}

		rows = newSessionRows(session.ID, plan.pick(questions))
		if err := sessions.AppendQuestions(ctx, rows); err != nil {
			return err
		}
		return s.ProgressRepo.WithTx(tx).SaveCursor(ctx, key, plan.Next, plan.Wrapped, now)
	})
	if errors.Is(err, util.ErrConcurrentUpdate) {
		monitoring.MCQConflicts.WithLabelValues("next_batch").Inc()
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("load next batch: %w", err)
	}

	session.LastQuestionIndex = plan.Next
	session.BatchCount++

	monitoring.MCQQuestionsServed.Add(float64(len(rows)))
	logger.Log.Debug("mcq batch served",
		zap.Uint("sessionId", session.ID),
		zap.Int("start", plan.Start),
		zap.Int("next", plan.Next),
		zap.Int("batch", len(rows)),
	)

	return &BatchOutcome{
		Session:   session,
		Rows:      rows,
		Total:     len(questions),
		Remaining: remaining(len(questions), plan.Next),
	}, nil
}

// SubmitAnswer 记录作答或跳过。
// 已作答的题目不能再次提交，跳过的题目可以补答一次，计数只在首次作答时增加。
func (s *MCQService) SubmitAnswer(ctx context.Context, studentID uint, req SubmitAnswerRequest) (res *AnswerResult, err error) {
	ctx, span := tracing.Start(ctx, "mcq.SubmitAnswer",
		attribute.Int64("mcq.session_id", int64(req.SessionID)),
		attribute.Int64("mcq.question_id", int64(req.QuestionID)),
	)
	defer func() { tracing.End(span, err) }()

	unlock, err := s.Locker.Lock(ctx, sessionLockKey(req.SessionID))
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	session, err := s.findOwnedSession(ctx, studentID, req.SessionID, false)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, util.ErrSessionEnded
	}

	sq, err := s.SessionRepo.FindOpenQuestion(ctx, session.ID, req.QuestionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		count, cerr := s.SessionRepo.CountQuestionRows(ctx, session.ID, req.QuestionID)
		if cerr != nil {
			return nil, fmt.Errorf("count session questions: %w", cerr)
		}
		if count > 0 {
			monitoring.MCQConflicts.WithLabelValues("submit_answer").Inc()
			return nil, util.ErrAlreadyAnswered
		}
		return nil, util.ErrSessionQuestionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session question: %w", err)
	}
	if sq.Question == nil {
		return nil, util.ErrQuestionNotFound
	}

	now := s.now()

	if req.SelectedAnswer == nil {
		// 重复跳过不改动记录
		if sq.State == model.AnswerSkipped {
			return &AnswerResult{IsSkipped: true}, nil
		}
		ok, err := s.SessionRepo.TransitionQuestion(ctx, sq.ID, sq.State, map[string]interface{}{
			"state":           model.AnswerSkipped,
			"selected_answer": nil,
			"is_correct":      nil,
			"answered_at":     now,
		})
		if err != nil {
			return nil, fmt.Errorf("record skip: %w", err)
		}
		if !ok {
			monitoring.MCQConflicts.WithLabelValues("submit_answer").Inc()
			return nil, util.ErrAlreadyAnswered
		}
		monitoring.MCQAnswersTotal.WithLabelValues("skipped").Inc()
		return &AnswerResult{IsSkipped: true}, nil
	}

	selected := *req.SelectedAnswer
	if selected < 0 || selected >= len(sq.Question.Options) {
		return nil, fmt.Errorf("%w: selected_answer %d out of range [0,%d)", util.ErrValidation, selected, len(sq.Question.Options))
	}
	isCorrect := selected == sq.Question.CorrectAnswer

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sessions := s.SessionRepo.WithTx(tx)
		ok, err := sessions.TransitionQuestion(ctx, sq.ID, sq.State, map[string]interface{}{
			"state":           model.AnswerAnswered,
			"selected_answer": selected,
			"is_correct":      isCorrect,
			"answered_at":     now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return util.ErrAlreadyAnswered
		}

		column := "incorrect_count"
		if isCorrect {
			column = "correct_count"
		}
		return sessions.IncrementCounter(ctx, session.ID, column)
	})
	if errors.Is(err, util.ErrAlreadyAnswered) {
		monitoring.MCQConflicts.WithLabelValues("submit_answer").Inc()
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}

	result := "incorrect"
	if isCorrect {
		result = "correct"
	}
	monitoring.MCQAnswersTotal.WithLabelValues(result).Inc()

	return &AnswerResult{IsCorrect: &isCorrect}, nil
}

// EndSession 结算会话：时长取整到秒，计数只按已作答记录重新统计。
// 重复结束返回已结算的会话。
func (s *MCQService) EndSession(ctx context.Context, studentID, sessionID uint) (out *model.MCQSession, err error) {
	ctx, span := tracing.Start(ctx, "mcq.EndSession", attribute.Int64("mcq.session_id", int64(sessionID)))
	defer func() { tracing.End(span, err) }()

	unlock, err := s.Locker.Lock(ctx, sessionLockKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("lock session: %w", err)
	}
	defer unlock()

	session, err := s.findOwnedSession(ctx, studentID, sessionID, true)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return session, nil
	}

	now := s.now()
	correct, incorrect, skipped := tally(session.Questions)
	session.EndTime = &now
	session.Duration = int(math.Round(now.Sub(session.StartTime).Seconds()))
	session.CorrectCount = correct
	session.IncorrectCount = incorrect
	session.SkippedCount = skipped

	if err := s.SessionRepo.SaveFinal(ctx, session); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}

	monitoring.MCQSessionsTotal.WithLabelValues("ended").Inc()
	logger.Log.Info("mcq session ended",
		zap.Uint("sessionId", session.ID),
		zap.Int("duration", session.Duration),
		zap.Int("correct", correct),
		zap.Int("incorrect", incorrect),
		zap.Int("skipped", skipped),
	)
	return session, nil
}

// GetSession 查看会话详情；canViewAll 为 false 时只能查看自己的会话
func (s *MCQService) GetSession(ctx context.Context, viewerID uint, canViewAll bool, sessionID uint) (*model.MCQSession, error) {
	session, err := s.findSession(ctx, sessionID, true)
	if err != nil {
		return nil, err
	}
	if !canViewAll && session.StudentID != viewerID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *MCQService) ListStudentSessions(ctx context.Context, studentID uint, page, limit int) ([]model.MCQSession, int64, error) {
	return s.SessionRepo.ListByStudent(ctx, studentID, page, limit)
}

func (s *MCQService) ListSessions(ctx context.Context, f repository.SessionFilter, page, limit int) ([]model.MCQSession, int64, error) {
	return s.SessionRepo.List(ctx, f, page, limit)
}
