package models

// AnswerKind defines the kind of answer a question expects.
// We use iota for enum-like behavior; the answer_types table only
// provides id/name lookup for compatibility with the stored data.
type AnswerKind int

const (
	TextAnswer   AnswerKind = iota // free text
	SingleChoice                   // one option
	MultiChoice                    // any number of options
)

const (
	AnswerTypeText        = "text"
	AnswerTypeChoice      = "choise"
	AnswerTypeChoiceMulti = "choise_multi"
)

// KindFromName resolves a stored type name to its AnswerKind.
// The vocabulary is closed; anything else is rejected.
func KindFromName(name string) (AnswerKind, bool) {
	switch name {
	case AnswerTypeText:
		return TextAnswer, true
	case AnswerTypeChoice:
		return SingleChoice, true
	case AnswerTypeChoiceMulti:
		return MultiChoice, true
	}
	return 0, false
}

// Name returns the stored type name for the kind.
func (k AnswerKind) Name() string {
	switch k {
	case SingleChoice:
		return AnswerTypeChoice
	case MultiChoice:
		return AnswerTypeChoiceMulti
	default:
		return AnswerTypeText
	}
}

// Single reports whether the kind accepts at most one answer per question.
func (k AnswerKind) Single() bool {
	return k != MultiChoice
}

// AnswerType is an immutable reference row backing AnswerKind.
type AnswerType struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Type     string `gorm:"not null;uniqueIndex" json:"type"`
	IsDelete bool   `gorm:"not null;default:false" json:"-"`
}

// Kind maps the stored row to its enum value.
func (t AnswerType) Kind() AnswerKind {
	k, _ := KindFromName(t.Type)
	return k
}
