package service

import (
	"errors"
	"fmt"

	"polls-service/database"
	"polls-service/models"

	"gorm.io/gorm"
)

// AnswerService records and lists user submissions. A submission is written
// once, as one atomic transaction, and is immutable afterwards.
type AnswerService struct {
	db *gorm.DB
}

// NewAnswerService creates an answer service.
func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db}
}

// SubmissionItem is one answered question within a submission.
type SubmissionItem struct {
	QuestionID     uint
	Answer         string
	AnswerOptionID *uint
}

// SubmissionInput is a user's complete answer set for one poll.
type SubmissionInput struct {
	UserID uint
	PollID uint
	Items  []SubmissionItem
}

// Submit validates every item against the poll's questions and, only if the
// whole set is legal, persists the submission and its children in a single
// transaction. No partial write is ever observable.
func (s *AnswerService) Submit(in SubmissionInput) (*models.UserPollAnswer, error) {
	var poll models.Poll
	err := s.db.Scopes(database.Alive).First(&poll, in.PollID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	questions, err := s.loadPollQuestions(poll.ID)
	if err != nil {
		return nil, err
	}

	// Per-item checks run in submission order so the first offending item
	// is the one reported.
	for _, item := range in.Items {
		if err := validateItem(&poll, questions, item); err != nil {
			return nil, err
		}
	}

	// Cross-item rule: only choise_multi questions may appear more than once.
	seen := make(map[uint]int, len(in.Items))
	for _, item := range in.Items {
		seen[item.QuestionID]++
		if seen[item.QuestionID] > 1 && questions[item.QuestionID].AnswerType.Kind().Single() {
			return nil, NewValidationError("Multiple answers are possible only to choise_multi question")
		}
	}

	submission := models.UserPollAnswer{
		UserID: in.UserID,
		PollID: poll.ID,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		for _, item := range in.Items {
			answer := models.UserPollQuestionAnswer{
				UserPollAnswerID: submission.ID,
				QuestionID:       item.QuestionID,
				Answer:           item.Answer,
				AnswerOptionID:   item.AnswerOptionID,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
			submission.Answers = append(submission.Answers, answer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

// loadPollQuestions indexes the poll's non-deleted questions by id, with
// answer types and allowed options resolved.
func (s *AnswerService) loadPollQuestions(pollID uint) (map[uint]*models.Question, error) {
	var questions []models.Question
	err := s.db.Model(&models.Question{}).
		Joins("JOIN poll_questions pq ON pq.question_id = questions.id").
		Where("pq.poll_id = ?", pollID).
		Where("questions.is_delete = ?", false).
		Preload("AnswerType").
		Preload("Options", "is_delete = ?", false).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	indexed := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		indexed[questions[i].ID] = &questions[i]
	}
	return indexed, nil
}

// validateItem enforces the per-item legality rules: question membership,
// answer-kind/field compatibility and option allowance.
func validateItem(poll *models.Poll, questions map[uint]*models.Question, item SubmissionItem) error {
	question, ok := questions[item.QuestionID]
	if !ok {
		return NewValidationError(
			fmt.Sprintf("Question id:%d not in poll id: %d", item.QuestionID, poll.ID))
	}

	kind := question.AnswerType.Kind()
	switch kind {
	case models.TextAnswer:
		if item.Answer == "" {
			return NewValidationError(
				fmt.Sprintf("Question id:%d type text requires answer field", question.ID))
		}
	default:
		if item.AnswerOptionID == nil {
			return NewValidationError(
				fmt.Sprintf("Question id:%d type %s requires answer_id field", question.ID, kind.Name()))
		}
	}

	if item.AnswerOptionID != nil {
		allowed := false
		for _, opt := range question.Options {
			if opt.ID == *item.AnswerOptionID {
				allowed = true
				break
			}
		}
		if !allowed {
			return NewValidationError(
				fmt.Sprintf("Answer id:%d, not allowed for question id:%d", *item.AnswerOptionID, question.ID))
		}
	}
	return nil
}

// List returns a user's non-deleted submissions, oldest first, each with its
// child answers in submission order. The user filter is mandatory.
func (s *AnswerService) List(userID *uint) ([]models.UserPollAnswer, error) {
	if userID == nil {
		return nil, NewValidationError("Empty param user_id")
	}

	var submissions []models.UserPollAnswer
	err := s.db.Scopes(database.Alive).
		Where("user_id = ?", *userID).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_delete = ?", false).Order("id")
		}).
		Order("id").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}
