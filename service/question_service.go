package service

import (
	"errors"

	"polls-service/database"
	"polls-service/models"

	"gorm.io/gorm"
)

// QuestionService manages questions within a poll. It enforces the closed
// answer-type vocabulary and the rule that text questions carry no answer
// options.
type QuestionService struct {
	db *gorm.DB
}

// NewQuestionService creates a question service.
func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// QuestionInput carries question fields for create and partial update.
// Options semantics: nil means not supplied, an empty slice clears the set.
type QuestionInput struct {
	Text       *string
	AnswerType *string
	Options    *[]string
}

// pollQuestions scopes question queries to the non-deleted questions linked
// to one poll, with type and options resolved.
func (s *QuestionService) pollQuestions(pollID uint) *gorm.DB {
	return s.db.Model(&models.Question{}).
		Joins("JOIN poll_questions pq ON pq.question_id = questions.id").
		Where("pq.poll_id = ?", pollID).
		Where("questions.is_delete = ?", false).
		Preload("AnswerType").
		Preload("Options", "is_delete = ?", false)
}

// List returns the poll's questions ordered by id ascending.
func (s *QuestionService) List(pollID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.pollQuestions(pollID).Order("questions.id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Get returns a single question scoped to the poll.
func (s *QuestionService) Get(pollID, id uint) (*models.Question, error) {
	var question models.Question
	err := s.pollQuestions(pollID).Where("questions.id = ?", id).First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// resolveAnswerType maps a type name to its reference row. Unknown names are
// rejected; the vocabulary is fixed.
func (s *QuestionService) resolveAnswerType(name string) (*models.AnswerType, error) {
	if _, ok := models.KindFromName(name); !ok {
		return nil, NewValidationError("Wrong answer_type")
	}
	var at models.AnswerType
	err := s.db.Scopes(database.Alive).Where("type = ?", name).First(&at).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("Wrong answer_type")
		}
		return nil, err
	}
	return &at, nil
}

// findOrCreateOptions resolves option texts to rows, creating missing ones.
// The unique index on text makes the get-or-insert safe under concurrency.
func findOrCreateOptions(tx *gorm.DB, texts []string) ([]models.AnswerOption, error) {
	options := make([]models.AnswerOption, 0, len(texts))
	for _, text := range texts {
		opt := models.AnswerOption{Text: text}
		if err := tx.Where("text = ?", text).FirstOrCreate(&opt).Error; err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, nil
}

// Create validates and persists a question, its option links and the poll
// link in one transaction.
func (s *QuestionService) Create(pollID uint, in QuestionInput) (*models.Question, error) {
	var poll models.Poll
	err := s.db.Scopes(database.Alive).First(&poll, pollID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.AnswerType == nil {
		return nil, NewFieldError("answer_type", "This field is required.")
	}
	answerType, err := s.resolveAnswerType(*in.AnswerType)
	if err != nil {
		return nil, err
	}

	var optionTexts []string
	if in.Options != nil {
		optionTexts = *in.Options
	}
	if answerType.Kind() == models.TextAnswer && len(optionTexts) > 0 {
		return nil, NewValidationError("Can't setup answer if answer_type is text")
	}

	question := models.Question{AnswerTypeID: answerType.ID}
	if in.Text != nil {
		question.Text = *in.Text
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		options, err := findOrCreateOptions(tx, optionTexts)
		if err != nil {
			return err
		}
		if len(options) > 0 {
			if err := tx.Model(&question).Association("Options").Append(&options); err != nil {
				return err
			}
		}
		return tx.Model(&poll).Association("Questions").Append(&question)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(pollID, question.ID)
}

// Update applies a partial update. The type/options exclusivity rule is
// checked against the merged result; a supplied option list fully replaces
// the stored set.
func (s *QuestionService) Update(pollID, id uint, in QuestionInput) (*models.Question, error) {
	question, err := s.Get(pollID, id)
	if err != nil {
		return nil, err
	}

	answerType := &question.AnswerType
	if in.AnswerType != nil {
		answerType, err = s.resolveAnswerType(*in.AnswerType)
		if err != nil {
			return nil, err
		}
	}

	optionCount := len(question.Options)
	if in.Options != nil {
		optionCount = len(*in.Options)
	}
	if answerType.Kind() == models.TextAnswer && optionCount > 0 {
		return nil, NewValidationError("Can't setup answer if answer_type is text")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if in.Text != nil {
			updates["text"] = *in.Text
		}
		if in.AnswerType != nil {
			updates["answer_type_id"] = answerType.ID
		}
		if len(updates) > 0 {
			if err := tx.Model(question).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Options != nil {
			options, err := findOrCreateOptions(tx, *in.Options)
			if err != nil {
				return err
			}
			if len(options) == 0 {
				return tx.Model(question).Association("Options").Clear()
			}
			return tx.Model(question).Association("Options").Replace(&options)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(pollID, id)
}

// Delete soft-deletes a question. Links and recorded answers are kept.
func (s *QuestionService) Delete(pollID, id uint) error {
	question, err := s.Get(pollID, id)
	if err != nil {
		return err
	}
	return s.db.Model(question).Update("is_delete", true).Error
}
