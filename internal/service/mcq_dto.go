package service

import (
	"time"

	"school_edu_backend/internal/model"
)

type StartSessionRequest struct {
	ClassID uint   `json:"class_id" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Chapter string `json:"chapter" binding:"required"`
}

// SubmitAnswerRequest selected_answer 为 null 或缺省表示跳过
type SubmitAnswerRequest struct {
	SessionID      uint `json:"session_id" binding:"required"`
	QuestionID     uint `json:"question_id" binding:"required"`
	SelectedAnswer *int `json:"selected_answer"`
}

type SessionIDRequest struct {
	SessionID uint `json:"session_id" binding:"required"`
}

type AnswerResult struct {
	IsCorrect *bool `json:"isCorrect,omitempty"`
	IsSkipped bool  `json:"isSkipped,omitempty"`
}

// BatchOutcome 开始会话或加载下一批的结果
type BatchOutcome struct {
	Session   *model.MCQSession
	Rows      []model.MCQSessionQuestion
	Total     int
	Remaining int
}

type SessionQuestionView struct {
	ID             uint              `json:"id"`
	QuestionID     uint              `json:"questionId"`
	QuestionText   string            `json:"questionText"`
	ImageURL       string            `json:"imageUrl,omitempty"`
	Options        []string          `json:"options"`
	State          model.AnswerState `json:"state"`
	SelectedAnswer *int              `json:"selectedAnswer"`
	IsCorrect      *bool             `json:"isCorrect"`
	AnsweredAt     *time.Time        `json:"answeredAt"`
	CorrectAnswer  *int              `json:"correctAnswer,omitempty"`
}

type SessionView struct {
	ID                uint                  `json:"id"`
	StudentID         uint                  `json:"studentId"`
	ClassID           uint                  `json:"classId"`
	Subject           string                `json:"subject"`
	Chapter           string                `json:"chapter"`
	StartTime         time.Time             `json:"startTime"`
	EndTime           *time.Time            `json:"endTime,omitempty"`
	Duration          int                   `json:"duration"`
	CorrectCount      int                   `json:"correctCount"`
	IncorrectCount    int                   `json:"incorrectCount"`
	SkippedCount      int                   `json:"skippedCount"`
	LastQuestionIndex int                   `json:"lastQuestionIndex"`
	BatchCount        int                   `json:"batchCount"`
	Questions         []SessionQuestionView `json:"questions,omitempty"`
}

type BatchResponse struct {
	Session            SessionView           `json:"session"`
	Questions          []SessionQuestionView `json:"questions"`
	TotalQuestions     int                   `json:"totalQuestions"`
	CurrentBatch       int                   `json:"currentBatch"`
	RemainingQuestions int                   `json:"remainingQuestions"`
}

// NewSessionQuestionView reveal 为 true 时附带正确答案（会话结束或教师查看）
func NewSessionQuestionView(row model.MCQSessionQuestion, resolve func(string) string, reveal bool) SessionQuestionView {
	v := SessionQuestionView{
		ID:             row.ID,
		QuestionID:     row.QuestionID,
		State:          row.State,
		SelectedAnswer: row.SelectedAnswer,
		IsCorrect:      row.IsCorrect,
		AnsweredAt:     row.AnsweredAt,
	}
	if q := row.Question; q != nil {
		v.QuestionText = q.QuestionText
		v.Options = []string(q.Options)
		if resolve != nil {
			v.ImageURL = resolve(q.ImagePath)
		} else {
			v.ImageURL = q.ImagePath
		}
		if reveal {
			correct := q.CorrectAnswer
			v.CorrectAnswer = &correct
		}
	}
	return v
}

func NewSessionQuestionViews(rows []model.MCQSessionQuestion, resolve func(string) string, reveal bool) []SessionQuestionView {
	views := make([]SessionQuestionView, 0, len(rows))
	for _, r := range rows {
		views = append(views, NewSessionQuestionView(r, resolve, reveal))
	}
	return views
}

func NewSessionView(s *model.MCQSession, resolve func(string) string, reveal bool) SessionView {
	v := SessionView{
		ID:                s.ID,
		StudentID:         s.StudentID,
		ClassID:           s.ClassID,
		Subject:           s.Subject,
		Chapter:           s.Chapter,
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Duration:          s.Duration,
		CorrectCount:      s.CorrectCount,
		IncorrectCount:    s.IncorrectCount,
		SkippedCount:      s.SkippedCount,
		LastQuestionIndex: s.LastQuestionIndex,
		BatchCount:        s.BatchCount,
	}
	if len(s.Questions) > 0 {
		v.Questions = NewSessionQuestionViews(s.Questions, resolve, reveal)
	}
	return v
}

func NewBatchResponse(out *BatchOutcome, resolve func(string) string) BatchResponse {
	return BatchResponse{
		Session:            NewSessionView(out.Session, resolve, false),
		Questions:          NewSessionQuestionViews(out.Rows, resolve, false),
		TotalQuestions:     out.Total,
		CurrentBatch:       len(out.Rows),
		RemainingQuestions: out.Remaining,
	}
}

// QuestionRequest 教师录入题目
type QuestionRequest struct {
	ClassID       uint     `json:"class_id" binding:"required"`
	Subject       string   `json:"subject" binding:"required"`
	Chapter       string   `json:"chapter" binding:"required"`
	QuestionText  string   `json:"question_text" binding:"required"`
	ImagePath     string   `json:"image_path"`
	Options       []string `json:"options" binding:"required"`
	CorrectAnswer *int     `json:"correct_answer" binding:"required"`
}

// QuestionUpdateRequest 批量编辑，nil 字段保持不变
type QuestionUpdateRequest struct {
	ID            uint     `json:"id" binding:"required"`
	QuestionText  *string  `json:"question_text"`
	ImagePath     *string  `json:"image_path"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer"`
}

type QuestionView struct {
	ID            uint     `json:"id"`
	ClassID       uint     `json:"classId"`
	Subject       string   `json:"subject"`
	Chapter       string   `json:"chapter"`
	QuestionText  string   `json:"questionText"`
	ImagePath     string   `json:"imagePath,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

func NewQuestionView(q *model.MCQQuestion, resolve func(string) string) QuestionView {
	v := QuestionView{
		ID:            q.ID,
		ClassID:       q.ClassID,
		Subject:       q.Subject,
		Chapter:       q.Chapter,
		QuestionText:  q.QuestionText,
		ImagePath:     q.ImagePath,
		Options:       []string(q.Options),
		CorrectAnswer: q.CorrectAnswer,
	}
	if resolve != nil {
		v.ImageURL = resolve(q.ImagePath)
	}
	return v
}

func NewQuestionViews(questions []model.MCQQuestion, resolve func(string) string) []QuestionView {
	views := make([]QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, NewQuestionView(&questions[i], resolve))
	}
	return views
}
