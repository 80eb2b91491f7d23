package model

import "gorm.io/datatypes"

// MCQQuestion 题库中的选择题，按 (class_id, subject, chapter) 归组，id 升序即出题顺序
// swagger:model MCQQuestion
type MCQQuestion struct {
	BaseModel

	ClassID       uint                        `gorm:"not null;index:idx_mcq_question_corpus,priority:1" json:"classId"`
	Subject       string                      `gorm:"size:100;not null;index:idx_mcq_question_corpus,priority:2" json:"subject"`
	Chapter       string                      `gorm:"size:100;not null;index:idx_mcq_question_corpus,priority:3" json:"chapter"`
	QuestionText  string                      `gorm:"type:text;not null" json:"questionText"`
	ImagePath     string                      `gorm:"size:255" json:"imagePath,omitempty"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer int                         `gorm:"not null" json:"correctAnswer"`
	CreatedBy     uint                        `gorm:"index" json:"createdBy"`
}

func (MCQQuestion) TableName() string {
	return "mcq_questions"
}
