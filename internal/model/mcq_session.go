package model

import "time"

// MCQProgress 学生在某个章节题库中的出题游标，每个 (student, class, subject, chapter) 唯一
// swagger:model MCQProgress
type MCQProgress struct {
	BaseModel

	StudentID         uint      `gorm:"not null;uniqueIndex:uk_mcq_progress,priority:1" json:"studentId"`
	ClassID           uint      `gorm:"not null;uniqueIndex:uk_mcq_progress,priority:2" json:"classId"`
	Subject           string    `gorm:"size:100;not null;uniqueIndex:uk_mcq_progress,priority:3" json:"subject"`
	Chapter           string    `gorm:"size:100;not null;uniqueIndex:uk_mcq_progress,priority:4" json:"chapter"`
	LastQuestionIndex int       `gorm:"not null;default:0" json:"lastQuestionIndex"`
	CompletedCycles   int       `gorm:"not null;default:0" json:"completedCycles"` // 游标回到开头的次数
	LastAttempted     time.Time `json:"lastAttempted"`
}

func (MCQProgress) TableName() string {
	return "mcq_progress"
}

// MCQSession 一次练习，跨越一个或多个批次直到结束
// swagger:model MCQSession
type MCQSession struct {
	BaseModel

	StudentID         uint       `gorm:"not null;index" json:"studentId"`
	ClassID           uint       `gorm:"not null;index:idx_mcq_session_class,priority:1" json:"classId"`
	Subject           string     `gorm:"size:100;not null;index:idx_mcq_session_class,priority:2" json:"subject"`
	Chapter           string     `gorm:"size:100;not null" json:"chapter"`
	StartTime         time.Time  `gorm:"not null" json:"startTime"`
	EndTime           *time.Time `gorm:"index" json:"endTime,omitempty"`
	Duration          int        `gorm:"default:0" json:"duration"` // 秒
	CorrectCount      int        `gorm:"default:0" json:"correctCount"`
	IncorrectCount    int        `gorm:"default:0" json:"incorrectCount"`
	SkippedCount      int        `gorm:"default:0" json:"skippedCount"`
	LastQuestionIndex int        `gorm:"default:0" json:"lastQuestionIndex"`
	BatchCount        int        `gorm:"default:0" json:"batchCount"` // 已下发批次数，每次推进游标时递增

	Questions []MCQSessionQuestion `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
}

func (MCQSession) TableName() string {
	return "mcq_sessions"
}

func (s *MCQSession) Ended() bool {
	return s.EndTime != nil
}

type AnswerState string

const (
	AnswerUnanswered AnswerState = "unanswered"
	AnswerAnswered   AnswerState = "answered"
	AnswerSkipped    AnswerState = "skipped"
)

// MCQSessionQuestion 会话中的一道题，插入顺序即展示顺序，只追加不删除
// swagger:model MCQSessionQuestion
type MCQSessionQuestion struct {
	BaseModel

	SessionID      uint        `gorm:"not null;index:idx_mcq_sq_session_question,priority:1" json:"sessionId"`
	QuestionID     uint        `gorm:"not null;index:idx_mcq_sq_session_question,priority:2" json:"questionId"`
	State          AnswerState `gorm:"size:20;not null;default:'unanswered'" json:"state"`
	SelectedAnswer *int        `json:"selectedAnswer"`
	IsCorrect      *bool       `json:"isCorrect"`
	AnsweredAt     *time.Time  `json:"answeredAt"`

	Question *MCQQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (MCQSessionQuestion) TableName() string {
	return "mcq_session_questions"
}
