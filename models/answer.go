package models

// UserPollAnswer is one user's complete submission to a poll. It is created
// once per POST and never updated; a submitted answer set is a permanent
// audit artifact.
type UserPollAnswer struct {
	ID       uint                     `gorm:"primaryKey" json:"id"`
	UserID   uint                     `gorm:"not null;index" json:"user_id"`
	PollID   uint                     `gorm:"not null;index" json:"poll_id"`
	Poll     Poll                     `json:"-"`
	Answers  []UserPollQuestionAnswer `gorm:"foreignKey:UserPollAnswerID" json:"answers"`
	IsDelete bool                     `gorm:"not null;default:false" json:"-"`
}

// UserPollQuestionAnswer is a single answer item within a submission.
// Answer carries the free text for "text" questions; AnswerOptionID the
// chosen option for choice questions. Exactly one of them is meaningful.
type UserPollQuestionAnswer struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	UserPollAnswerID uint          `gorm:"not null;index" json:"-"`
	QuestionID       uint          `gorm:"not null;index" json:"question_id"`
	Answer           string        `json:"answer"`
	AnswerOptionID   *uint         `json:"answer_option_id,omitempty"`
	AnswerOption     *AnswerOption `json:"-"`
	IsDelete         bool          `gorm:"not null;default:false" json:"-"`
}
