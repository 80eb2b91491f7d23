package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type ChapterPerformance struct {
	Chapter        string  `json:"chapter"`
	Attempts       int     `json:"attempts"`
	AverageScore   float64 `json:"averageScore"`
	TotalQuestions int     `json:"totalQuestions"`
	StudentCount   int     `json:"studentCount"`

	students map[uint]struct{}
}

type StudentPerformance struct {
	StudentID         uint     `json:"studentId"`
	Name              string   `json:"name"`
	Sessions          int      `json:"sessions"`
	CorrectCount      int      `json:"correctCount"`
	IncorrectCount    int      `json:"incorrectCount"`
	SkippedCount      int      `json:"skippedCount"`
	CompletedChapters []string `json:"completedChapters"`
	AverageScore      float64  `json:"averageScore"`

	chapters map[string]struct{}
}

type ClassStatistics struct {
	ClassID                uint                           `json:"classId"`
	Subject                string                         `json:"subject"`
	TotalSessions          int                            `json:"totalSessions"`
	TotalStudents          int                            `json:"totalStudents"`
	AverageScore           float64                        `json:"averageScore"`
	ChapterWisePerformance map[string]*ChapterPerformance `json:"chapterWisePerformance"`
	StudentPerformance     map[uint]*StudentPerformance   `json:"studentPerformance"`
}

// ChapterProgress 学生在一个章节的出题进度
type ChapterProgress struct {
	ClassID           uint      `json:"classId"`
	Subject           string    `json:"subject"`
	Chapter           string    `json:"chapter"`
	LastQuestionIndex int       `json:"lastQuestionIndex"`
	CompletedCycles   int       `json:"completedCycles"`
	TotalQuestions    int64     `json:"totalQuestions"`
	CompletionPercent float64   `json:"completionPercent"`
	LastAttempted     time.Time `json:"lastAttempted"`
	Sessions          int       `json:"sessions"`
	AverageScore      float64   `json:"averageScore"`
}

type MCQStatisticsService struct {
	QuestionRepo *repository.MCQQuestionRepository
	SessionRepo  *repository.MCQSessionRepository
	ProgressRepo *repository.MCQProgressRepository
	UserRepo     *repository.UserRepository
}

func NewMCQStatisticsService(
	questionRepo *repository.MCQQuestionRepository,
	sessionRepo *repository.MCQSessionRepository,
	progressRepo *repository.MCQProgressRepository,
	userRepo *repository.UserRepository,
) *MCQStatisticsService {
	return &MCQStatisticsService{
		QuestionRepo: questionRepo,
		SessionRepo:  sessionRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
	}
}

// GetClassStatistics 汇总班级某科目下所有已结束的会话。
// 章节平均分按会话创建顺序做滑动平均：avg = (avg*(n-1) + score) / n
func (s *MCQStatisticsService) GetClassStatistics(ctx context.Context, classID uint, subject string) (stats *ClassStatistics, err error) {
	ctx, span := tracing.Start(ctx, "mcq.GetClassStatistics",
		attribute.Int64("mcq.class_id", int64(classID)),
		attribute.String("mcq.subject", subject),
	)
	defer func() { tracing.End(span, err) }()

	sessions, err := s.SessionRepo.ListEnded(ctx, repository.SessionFilter{ClassID: classID, Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("list ended sessions: %w", err)
	}

	ids := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	served, err := s.SessionRepo.CountQuestionsBySession(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count session questions: %w", err)
	}

	stats = &ClassStatistics{
		ClassID:                classID,
		Subject:                subject,
		TotalSessions:          len(sessions),
		ChapterWisePerformance: make(map[string]*ChapterPerformance),
		StudentPerformance:     make(map[uint]*StudentPerformance),
	}

	var scoreSum float64
	for _, session := range sessions {
		score := scorePercent(session.CorrectCount, session.IncorrectCount)
		scoreSum += score

		chapter, ok := stats.ChapterWisePerformance[session.Chapter]
		if !ok {
			chapter = &ChapterPerformance{Chapter: session.Chapter, students: make(map[uint]struct{})}
			stats.ChapterWisePerformance[session.Chapter] = chapter
		}
		chapter.Attempts++
		chapter.AverageScore = (chapter.AverageScore*float64(chapter.Attempts-1) + score) / float64(chapter.Attempts)
		chapter.TotalQuestions += served[session.ID]
		chapter.students[session.StudentID] = struct{}{}

		student, ok := stats.StudentPerformance[session.StudentID]
		if !ok {
			student = &StudentPerformance{StudentID: session.StudentID, chapters: make(map[string]struct{})}
			stats.StudentPerformance[session.StudentID] = student
		}
		student.Sessions++
		student.CorrectCount += session.CorrectCount
		student.IncorrectCount += session.IncorrectCount
		student.SkippedCount += session.SkippedCount
		student.chapters[session.Chapter] = struct{}{}
	}

	if len(sessions) > 0 {
		stats.AverageScore = util.Round2(scoreSum / float64(len(sessions)))
	}
	stats.TotalStudents = len(stats.StudentPerformance)

	for _, chapter := range stats.ChapterWisePerformance {
		chapter.StudentCount = len(chapter.students)
		chapter.AverageScore = util.Round2(chapter.AverageScore)
	}

	studentIDs := make([]uint, 0, len(stats.StudentPerformance))
	for id, student := range stats.StudentPerformance {
		studentIDs = append(studentIDs, id)
		student.CompletedChapters = make([]string, 0, len(student.chapters))
		for ch := range student.chapters {
			student.CompletedChapters = append(student.CompletedChapters, ch)
		}
		sort.Strings(student.CompletedChapters)
		student.AverageScore = util.Round2(scorePercent(student.CorrectCount, student.IncorrectCount))
	}

	names, err := s.UserRepo.FindNamesByIDs(studentIDs)
	if err != nil {
		return nil, fmt.Errorf("load student names: %w", err)
	}
	for id, name := range names {
		stats.StudentPerformance[id].Name = name
	}

	return stats, nil
}

// GetStudentProgress 学生各章节的游标、完成度与成绩
func (s *MCQStatisticsService) GetStudentProgress(ctx context.Context, studentID, classID uint, subject string) (out []ChapterProgress, err error) {
	ctx, span := tracing.Start(ctx, "mcq.GetStudentProgress", attribute.Int64("student.id", int64(studentID)))
	defer func() { tracing.End(span, err) }()

	if _, err := s.UserRepo.FindByID(studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("load student: %w", err)
	}

	rows, err := s.ProgressRepo.ListByStudent(ctx, studentID, classID, subject)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	sessions, err := s.SessionRepo.ListEnded(ctx, repository.SessionFilter{
		StudentID: studentID,
		ClassID:   classID,
		Subject:   subject,
	})
	if err != nil {
		return nil, fmt.Errorf("list ended sessions: %w", err)
	}

	type agg struct {
		sessions  int
		correct   int
		incorrect int
	}
	byCorpus := make(map[repository.Corpus]*agg)
	for _, session := range sessions {
		key := corpusOf(&session)
		a, ok := byCorpus[key]
		if !ok {
			a = &agg{}
			byCorpus[key] = a
		}
		a.sessions++
		a.correct += session.CorrectCount
		a.incorrect += session.IncorrectCount
	}

	out = make([]ChapterProgress, 0, len(rows))
	for _, p := range rows {
		corpus := repository.Corpus{ClassID: p.ClassID, Subject: p.Subject, Chapter: p.Chapter}
		total, err := s.QuestionRepo.CountCorpus(ctx, corpus)
		if err != nil {
			return nil, fmt.Errorf("count corpus: %w", err)
		}

		cp := ChapterProgress{
			ClassID:           p.ClassID,
			Subject:           p.Subject,
			Chapter:           p.Chapter,
			LastQuestionIndex: p.LastQuestionIndex,
			CompletedCycles:   p.CompletedCycles,
			TotalQuestions:    total,
			LastAttempted:     p.LastAttempted,
		}
		// 完成过一整轮即为 100%，之后游标回绕不再拉低完成度
		switch {
		case p.CompletedCycles > 0:
			cp.CompletionPercent = 100
		case total > 0 && int64(p.LastQuestionIndex) < total:
			cp.CompletionPercent = util.Round2(float64(p.LastQuestionIndex) / float64(total) * 100)
		}
		if a, ok := byCorpus[corpus]; ok {
			cp.Sessions = a.sessions
			cp.AverageScore = util.Round2(scorePercent(a.correct, a.incorrect))
		}
		out = append(out, cp)
	}
	return out, nil
}
