package handlers

import (
	"net/http"

	"polls-service/models"
	"polls-service/service"

	"github.com/gin-gonic/gin"
)

// OptionInput is an answer option supplied with a question.
type OptionInput struct {
	Text string `json:"text" binding:"required"`
}

// CreateQuestionInput defines the expected input for creating a question.
// Answer carries the allowed options for choice-type questions.
type CreateQuestionInput struct {
	Text       string        `json:"text" binding:"required"`
	AnswerType string        `json:"answer_type" binding:"required"`
	Answer     []OptionInput `json:"answer" binding:"omitempty,dive"`
}

// UpdateQuestionInput allows partial updates. A supplied Answer list fully
// replaces the question's option set.
type UpdateQuestionInput struct {
	Text       *string        `json:"text"`
	AnswerType *string        `json:"answer_type"`
	Answer     *[]OptionInput `json:"answer" binding:"omitempty,dive"`
}

// OptionResponse is the wire shape of an answer option.
type OptionResponse struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// QuestionResponse is the wire shape of a question with its resolved type
// name and allowed options.
type QuestionResponse struct {
	ID         uint             `json:"id"`
	Text       string           `json:"text"`
	AnswerType string           `json:"answer_type"`
	Answer     []OptionResponse `json:"answer"`
}

func toQuestionResponse(q *models.Question) QuestionResponse {
	options := make([]OptionResponse, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, OptionResponse{ID: opt.ID, Text: opt.Text})
	}
	return QuestionResponse{
		ID:         q.ID,
		Text:       q.Text,
		AnswerType: q.AnswerType.Type,
		Answer:     options,
	}
}

func optionTexts(options []OptionInput) []string {
	texts := make([]string, 0, len(options))
	for _, opt := range options {
		texts = append(texts, opt.Text)
	}
	return texts
}

// ListQuestions handles GET /poll/:poll_id/question/.
func ListQuestions(c *gin.Context) {
	pollID, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}

	questions, err := questionService.List(pollID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		response = append(response, toQuestionResponse(&questions[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetQuestion handles GET /poll/:poll_id/question/:id/.
func GetQuestion(c *gin.Context) {
	pollID, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := questionService.Get(pollID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuestionResponse(question))
}

// CreateQuestion handles POST /poll/:poll_id/question/.
func CreateQuestion(c *gin.Context) {
	pollID, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}

	var input CreateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	texts := optionTexts(input.Answer)
	question, err := questionService.Create(pollID, service.QuestionInput{
		Text:       &input.Text,
		AnswerType: &input.AnswerType,
		Options:    &texts,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuestionResponse(question))
}

// UpdateQuestion handles PUT and PATCH on /poll/:poll_id/question/:id/.
func UpdateQuestion(c *gin.Context) {
	pollID, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input UpdateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.QuestionInput{
		Text:       input.Text,
		AnswerType: input.AnswerType,
	}
	if input.Answer != nil {
		texts := optionTexts(*input.Answer)
		in.Options = &texts
	}

	question, err := questionService.Update(pollID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuestionResponse(question))
}

// DeleteQuestion handles DELETE /poll/:poll_id/question/:id/.
func DeleteQuestion(c *gin.Context) {
	pollID, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := questionService.Delete(pollID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
