package handlers

import (
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	"polls-service/cache"
	"polls-service/database"
	"polls-service/middleware"
	"polls-service/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

// SetupTestEnvironment sets up the Gin router and in-memory SQLite database
// for testing. The routes mirror routes/router.go.
func SetupTestEnvironment(t *testing.T) (*gin.Engine, *gorm.DB) {
	testing.Init()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	Init(db)
	cache.EnableMockMode()
	cache.ResetMock()

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			gin.H{"detail": fmt.Sprintf("Method %q not allowed.", c.Request.Method)})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})

	auth := middleware.RequireAuth(testJWTSecret)

	api := router.Group("/api/v1")
	{
		api.GET("/poll/", ListPolls)
		api.POST("/poll/", auth, CreatePoll)
		api.GET("/poll/:poll_id/", GetPoll)
		api.PUT("/poll/:poll_id/", auth, UpdatePoll)
		api.PATCH("/poll/:poll_id/", auth, UpdatePoll)
		api.DELETE("/poll/:poll_id/", auth, DeletePoll)

		api.GET("/poll/:poll_id/question/", ListQuestions)
		api.POST("/poll/:poll_id/question/", auth, CreateQuestion)
		api.GET("/poll/:poll_id/question/:id/", GetQuestion)
		api.PUT("/poll/:poll_id/question/:id/", auth, UpdateQuestion)
		api.PATCH("/poll/:poll_id/question/:id/", auth, UpdateQuestion)
		api.DELETE("/poll/:poll_id/question/:id/", auth, DeleteQuestion)

		api.GET("/answer/", ListAnswers)
		api.POST("/answer/", SubmitAnswers)
	}

	ClearTables(db)
	return router, db
}

// ClearTables empties all tables except the seeded answer types. Join
// tables go first because of foreign key constraints.
func ClearTables(db *gorm.DB) {
	for _, stmt := range []string{
		"DELETE FROM poll_questions",
		"DELETE FROM question_answer_options",
		"DELETE FROM user_poll_question_answers",
		"DELETE FROM user_poll_answers",
		"DELETE FROM questions",
		"DELETE FROM answer_options",
		"DELETE FROM polls",
	} {
		db.Exec(stmt)
	}
}

// authHeader returns a Bearer header with a token the auth middleware
// accepts, standing in for what the OAuth2 provider would issue.
func authHeader(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test@test.com",
		"exp": time.Now().Add(5 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

// dateStr formats local midnight shifted by days in the wire date format.
func dateStr(daysFromNow int) string {
	return time.Now().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func testDate(daysFromNow int) *time.Time {
	now := time.Now()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, daysFromNow)
	return &d
}

// createTestPoll inserts a currently open poll.
func createTestPoll(t *testing.T, db *gorm.DB, name string) *models.Poll {
	t.Helper()
	poll := models.Poll{
		Name:      name,
		StartDate: testDate(-1),
		EndDate:   testDate(7),
	}
	require.NoError(t, db.Create(&poll).Error)
	return &poll
}

// testAnswerType fetches a seeded answer-type row by name.
func testAnswerType(t *testing.T, db *gorm.DB, name string) models.AnswerType {
	t.Helper()
	var at models.AnswerType
	require.NoError(t, db.Where("type = ?", name).First(&at).Error)
	return at
}
