package handlers

import (
	"net/http"
	"strconv"

	"polls-service/models"
	"polls-service/service"

	"github.com/gin-gonic/gin"
)

// SubmitAnswerItemInput is one answered question in a submission request.
type SubmitAnswerItemInput struct {
	Question uint   `json:"question" binding:"required"`
	Answer   string `json:"answer"`
	AnswerID *uint  `json:"answer_id"`
}

// SubmitAnswerInput defines the expected input for POST /answer/. The poll
// id is carried as a string for compatibility with existing clients.
type SubmitAnswerInput struct {
	UserID  uint                    `json:"user_id" binding:"required"`
	Poll    string                  `json:"poll" binding:"required"`
	Answers []SubmitAnswerItemInput `json:"answers" binding:"required,dive"`
}

// SubmissionAnswerResponse is the wire shape of one answer item.
type SubmissionAnswerResponse struct {
	Question uint   `json:"question"`
	Answer   string `json:"answer"`
	AnswerID *uint  `json:"answer_id,omitempty"`
}

// SubmissionResponse is the wire shape of a user's submission.
type SubmissionResponse struct {
	UserID  uint                       `json:"user_id"`
	Poll    string                     `json:"poll"`
	Answers []SubmissionAnswerResponse `json:"answers"`
}

func toSubmissionResponse(s *models.UserPollAnswer) SubmissionResponse {
	answers := make([]SubmissionAnswerResponse, 0, len(s.Answers))
	for _, a := range s.Answers {
		answers = append(answers, SubmissionAnswerResponse{
			Question: a.QuestionID,
			Answer:   a.Answer,
			AnswerID: a.AnswerOptionID,
		})
	}
	return SubmissionResponse{
		UserID:  s.UserID,
		Poll:    strconv.FormatUint(uint64(s.PollID), 10),
		Answers: answers,
	}
}

// SubmitAnswers handles POST /answer/: one user's complete answer set for a
// poll, validated as a whole and written atomically.
func SubmitAnswers(c *gin.Context) {
	var input SubmitAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pollID, err := strconv.ParseUint(input.Poll, 10, 32)
	if err != nil {
		respondError(c, service.NewFieldError("poll", "A valid integer is required."))
		return
	}

	items := make([]service.SubmissionItem, 0, len(input.Answers))
	for _, a := range input.Answers {
		items = append(items, service.SubmissionItem{
			QuestionID:     a.Question,
			Answer:         a.Answer,
			AnswerOptionID: a.AnswerID,
		})
	}

	submission, err := answerService.Submit(service.SubmissionInput{
		UserID: input.UserID,
		PollID: uint(pollID),
		Items:  items,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubmissionResponse(submission))
}

// ListAnswers handles GET /answer/?user_id=. The user filter is mandatory.
func ListAnswers(c *gin.Context) {
	var userID *uint
	if raw, exists := c.GetQuery("user_id"); exists && raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, service.NewFieldError("user_id", "A valid integer is required."))
			return
		}
		id := uint(parsed)
		userID = &id
	}

	submissions, err := answerService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		response = append(response, toSubmissionResponse(&submissions[i]))
	}
	c.JSON(http.StatusOK, response)
}
