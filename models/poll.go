package models

import "time"

// Poll represents a named survey with a validity window and a set of questions.
// Dates are stored with day precision; a poll is listed only while its end
// date is strictly in the future.
type Poll struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Description string     `gorm:"type:text" json:"description"`
	Questions   []Question `gorm:"many2many:poll_questions" json:"questions,omitempty"`
	IsDelete    bool       `gorm:"not null;default:false" json:"-"`
}

// Question is a prompt within a poll. For choice-type questions Options holds
// the permitted answer options; a text question must have none.
type Question struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	AnswerTypeID uint           `gorm:"not null;index" json:"-"`
	AnswerType   AnswerType     `json:"answer_type"`
	Options      []AnswerOption `gorm:"many2many:question_answer_options" json:"options,omitempty"`
	IsDelete     bool           `gorm:"not null;default:false" json:"-"`
}

// AnswerOption is a reusable named choice. Options are deduplicated by text,
// so the same row may be shared by many questions.
type AnswerOption struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Text     string `gorm:"not null;uniqueIndex" json:"text"`
	IsDelete bool   `gorm:"not null;default:false" json:"-"`
}
