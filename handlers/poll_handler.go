package handlers

import (
	"net/http"

	"polls-service/models"
	"polls-service/service"

	"github.com/gin-gonic/gin"
)

// CreatePollInput defines the expected input structure for creating a poll.
type CreatePollInput struct {
	Name        string  `json:"name" binding:"required"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
}

// UpdatePollInput allows partial updates; absent fields are left untouched.
type UpdatePollInput struct {
	Name        *string `json:"name"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description"`
}

// PollResponse is the wire shape of a poll.
type PollResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description string  `json:"description"`
}

func toPollResponse(p *models.Poll) PollResponse {
	return PollResponse{
		ID:          p.ID,
		Name:        p.Name,
		StartDate:   formatDate(p.StartDate),
		EndDate:     formatDate(p.EndDate),
		Description: p.Description,
	}
}

// ListPolls handles GET /poll/ and returns the currently open polls.
func ListPolls(c *gin.Context) {
	polls, err := pollService.List()
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PollResponse, 0, len(polls))
	for i := range polls {
		response = append(response, toPollResponse(&polls[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetPoll handles GET /poll/:poll_id/.
func GetPoll(c *gin.Context) {
	id, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}

	poll, err := pollService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPollResponse(poll))
}

// CreatePoll handles POST /poll/.
func CreatePoll(c *gin.Context) {
	var input CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := pollInputFromBody(&input.Name, input.StartDate, input.EndDate, input.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	poll, err := pollService.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPollResponse(poll))
}

// UpdatePoll handles PUT and PATCH on /poll/:poll_id/. Both apply partial
// merge semantics.
func UpdatePoll(c *gin.Context) {
	id, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}

	var input UpdatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := pollInputFromBody(input.Name, input.StartDate, input.EndDate, input.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	poll, err := pollService.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPollResponse(poll))
}

// DeletePoll handles DELETE /poll/:poll_id/ by setting the soft-delete flag.
func DeletePoll(c *gin.Context) {
	id, ok := parseIDParam(c, "poll_id")
	if !ok {
		return
	}

	if err := pollService.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Poll deleted successfully"})
}

func pollInputFromBody(name, startDate, endDate, description *string) (service.PollInput, error) {
	start, err := parseDate(startDate, "start_date")
	if err != nil {
		return service.PollInput{}, err
	}
	end, err := parseDate(endDate, "end_date")
	if err != nil {
		return service.PollInput{}, err
	}
	return service.PollInput{
		Name:        name,
		StartDate:   start,
		EndDate:     end,
		Description: description,
	}, nil
}
