package service

import (
	"fmt"
	"testing"

	"polls-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pollFixture is a poll with one question of each answer kind. Both choice
// questions share the same two options.
type pollFixture struct {
	poll    *models.Poll
	textQ   *models.Question
	singleQ *models.Question
	multiQ  *models.Question
	opt1    *models.AnswerOption
	opt2    *models.AnswerOption
}

func uintPtr(v uint) *uint { return &v }

func setupPollFixture(t *testing.T, db *gorm.DB) *pollFixture {
	t.Helper()

	poll := createOpenPoll(t, db, "fixture poll")

	opt1 := &models.AnswerOption{Text: "choise1"}
	opt2 := &models.AnswerOption{Text: "choise2"}
	require.NoError(t, db.Create(opt1).Error)
	require.NoError(t, db.Create(opt2).Error)

	textType := answerType(t, db, models.AnswerTypeText)
	choiceType := answerType(t, db, models.AnswerTypeChoice)
	multiType := answerType(t, db, models.AnswerTypeChoiceMulti)

	textQ := &models.Question{Text: "question with text answer", AnswerTypeID: textType.ID}
	singleQ := &models.Question{
		Text:         "question with single choise",
		AnswerTypeID: choiceType.ID,
		Options:      []models.AnswerOption{*opt1, *opt2},
	}
	multiQ := &models.Question{
		Text:         "question with multi choise",
		AnswerTypeID: multiType.ID,
		Options:      []models.AnswerOption{*opt1, *opt2},
	}
	require.NoError(t, db.Create(textQ).Error)
	require.NoError(t, db.Create(singleQ).Error)
	require.NoError(t, db.Create(multiQ).Error)

	require.NoError(t, db.Model(poll).Association("Questions").
		Append(textQ, singleQ, multiQ))

	return &pollFixture{
		poll:    poll,
		textQ:   textQ,
		singleQ: singleQ,
		multiQ:  multiQ,
		opt1:    opt1,
		opt2:    opt2,
	}
}

func TestSubmit_Success(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	submission, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items: []SubmissionItem{
			{QuestionID: fx.textQ.ID, Answer: "text_answer"},
			{QuestionID: fx.singleQ.ID, AnswerOptionID: uintPtr(fx.opt1.ID)},
			{QuestionID: fx.multiQ.ID, AnswerOptionID: uintPtr(fx.opt1.ID)},
			{QuestionID: fx.multiQ.ID, AnswerOptionID: uintPtr(fx.opt2.ID)},
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, submission.ID)
	require.Len(t, submission.Answers, 4)

	// Children come back in submission order.
	assert.Equal(t, fx.textQ.ID, submission.Answers[0].QuestionID)
	assert.Equal(t, "text_answer", submission.Answers[0].Answer)
	assert.Nil(t, submission.Answers[0].AnswerOptionID)
	assert.Equal(t, fx.opt1.ID, *submission.Answers[1].AnswerOptionID)
	assert.Equal(t, fx.opt1.ID, *submission.Answers[2].AnswerOptionID)
	assert.Equal(t, fx.opt2.ID, *submission.Answers[3].AnswerOptionID)

	var count int64
	db.Model(&models.UserPollQuestionAnswer{}).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestSubmit_PollNotFound(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)

	_, err := svc.Submit(SubmissionInput{UserID: 1, PollID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_QuestionNotInPoll(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	textType := answerType(t, db, models.AnswerTypeText)
	lonely := models.Question{Text: "lonely question without poll", AnswerTypeID: textType.ID}
	require.NoError(t, db.Create(&lonely).Error)

	_, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items:  []SubmissionItem{{QuestionID: lonely.ID, Answer: "x"}},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	expected := fmt.Sprintf("Question id:%d not in poll id: %d", lonely.ID, fx.poll.ID)
	assert.Equal(t, []string{expected}, vErr.Errors[NonFieldErrors])
}

func TestSubmit_TextRequiresAnswer(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	_, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items:  []SubmissionItem{{QuestionID: fx.textQ.ID}},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	expected := fmt.Sprintf("Question id:%d type text requires answer field", fx.textQ.ID)
	assert.Equal(t, []string{expected}, vErr.Errors[NonFieldErrors])
}

func TestSubmit_ChoiceRequiresAnswerID(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	tests := []struct {
		question *models.Question
		typeName string
	}{
		{fx.singleQ, models.AnswerTypeChoice},
		{fx.multiQ, models.AnswerTypeChoiceMulti},
	}
	for _, tc := range tests {
		_, err := svc.Submit(SubmissionInput{
			UserID: 1,
			PollID: fx.poll.ID,
			Items:  []SubmissionItem{{QuestionID: tc.question.ID, Answer: "ignored"}},
		})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		expected := fmt.Sprintf("Question id:%d type %s requires answer_id field",
			tc.question.ID, tc.typeName)
		assert.Equal(t, []string{expected}, vErr.Errors[NonFieldErrors])
	}
}

func TestSubmit_OptionNotAllowed(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	stray := models.AnswerOption{Text: "not attached anywhere"}
	require.NoError(t, db.Create(&stray).Error)

	_, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items:  []SubmissionItem{{QuestionID: fx.singleQ.ID, AnswerOptionID: uintPtr(stray.ID)}},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	expected := fmt.Sprintf("Answer id:%d, not allowed for question id:%d", stray.ID, fx.singleQ.ID)
	assert.Equal(t, []string{expected}, vErr.Errors[NonFieldErrors])
}

func TestSubmit_MultipleAnswersSingleQuestion(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	// Two answers to a single-choice question fail the whole submission.
	_, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items: []SubmissionItem{
			{QuestionID: fx.singleQ.ID, AnswerOptionID: uintPtr(fx.opt1.ID)},
			{QuestionID: fx.singleQ.ID, AnswerOptionID: uintPtr(fx.opt2.ID)},
		},
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t,
		[]string{"Multiple answers are possible only to choise_multi question"},
		vErr.Errors[NonFieldErrors])

	// Same for two answers to a text question.
	_, err = svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items: []SubmissionItem{
			{QuestionID: fx.textQ.ID, Answer: "one"},
			{QuestionID: fx.textQ.ID, Answer: "two"},
		},
	})
	assert.ErrorAs(t, err, &vErr)

	// Nothing was persisted on either failure.
	var count int64
	db.Model(&models.UserPollAnswer{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmit_MultipleAnswersMultiQuestion(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	submission, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items: []SubmissionItem{
			{QuestionID: fx.multiQ.ID, AnswerOptionID: uintPtr(fx.opt1.ID)},
			{QuestionID: fx.multiQ.ID, AnswerOptionID: uintPtr(fx.opt2.ID)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, submission.Answers, 2)
}

func TestSubmit_IgnoresDeletedQuestions(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	require.NoError(t, db.Model(fx.textQ).Update("is_delete", true).Error)

	_, err := svc.Submit(SubmissionInput{
		UserID: 1,
		PollID: fx.poll.ID,
		Items:  []SubmissionItem{{QuestionID: fx.textQ.ID, Answer: "x"}},
	})

	// A soft-deleted question counts as not in the poll.
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	expected := fmt.Sprintf("Question id:%d not in poll id: %d", fx.textQ.ID, fx.poll.ID)
	assert.Equal(t, []string{expected}, vErr.Errors[NonFieldErrors])
}

func TestListAnswers_RequiresUserID(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)

	_, err := svc.List(nil)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"Empty param user_id"}, vErr.Errors[NonFieldErrors])
}

func TestListAnswers_FiltersAndOrders(t *testing.T) {
	db := setupDB(t)
	svc := NewAnswerService(db)
	fx := setupPollFixture(t, db)

	submit := func(userID uint) *models.UserPollAnswer {
		s, err := svc.Submit(SubmissionInput{
			UserID: userID,
			PollID: fx.poll.ID,
			Items:  []SubmissionItem{{QuestionID: fx.textQ.ID, Answer: "a"}},
		})
		require.NoError(t, err)
		return s
	}

	first := submit(1)
	second := submit(1)
	submit(2)

	// Soft-deleted submissions never come back.
	deleted := submit(1)
	require.NoError(t, db.Model(&models.UserPollAnswer{}).
		Where("id = ?", deleted.ID).Update("is_delete", true).Error)

	listed, err := svc.List(uintPtr(1))
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
	require.Len(t, listed[0].Answers, 1)
	assert.Equal(t, "a", listed[0].Answers[0].Answer)
}
