package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"polls-service/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	pollService     *service.PollService
	questionService *service.QuestionService
	answerService   *service.AnswerService
)

// Init wires the handlers to a database connection. Tests call it with an
// in-memory SQLite handle.
func Init(db *gorm.DB) {
	pollService = service.NewPollService(db)
	questionService = service.NewQuestionService(db)
	answerService = service.NewAnswerService(db)
}

// dateLayout is the wire format for poll dates.
const dateLayout = "2006-01-02"

// respondError translates service errors into the API error contract:
// validation errors become a 400 body keyed by field (or non_field_errors),
// missing entities a 404.
func respondError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, vErr.Errors)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseIDParam reads a positive integer path parameter, 404ing on garbage
// ids the same way a missing row would.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}

// parseDate parses an optional YYYY-MM-DD field, reporting a field-keyed
// validation error on a malformed value.
func parseDate(value *string, field string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, service.NewFieldError(field,
			"Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
