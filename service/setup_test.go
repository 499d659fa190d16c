package service

import (
	"testing"
	"time"

	"polls-service/cache"
	"polls-service/database"
	"polls-service/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB opens the shared in-memory SQLite database, migrates the schema
// and clears any state left behind by a previous test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to in-memory database")

	require.NoError(t, database.Migrate(db), "failed to migrate database")

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	clearTables(t, db)
	cache.EnableMockMode()
	cache.ResetMock()

	return db
}

// clearTables empties everything except the seeded answer-type rows.
// Join tables first to keep foreign keys happy.
func clearTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, stmt := range []string{
		"DELETE FROM poll_questions",
		"DELETE FROM question_answer_options",
		"DELETE FROM user_poll_question_answers",
		"DELETE FROM user_poll_answers",
		"DELETE FROM questions",
		"DELETE FROM answer_options",
		"DELETE FROM polls",
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

// answerType fetches a seeded answer-type row by name.
func answerType(t *testing.T, db *gorm.DB, name string) models.AnswerType {
	t.Helper()
	var at models.AnswerType
	require.NoError(t, db.Where("type = ?", name).First(&at).Error)
	return at
}

// date returns local midnight shifted by the given number of days.
func date(daysFromNow int) *time.Time {
	now := time.Now()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, daysFromNow)
	return &d
}

// createOpenPoll inserts a poll that is visible through the service layer.
func createOpenPoll(t *testing.T, db *gorm.DB, name string) *models.Poll {
	t.Helper()
	poll := models.Poll{
		Name:      name,
		StartDate: date(-1),
		EndDate:   date(7),
	}
	require.NoError(t, db.Create(&poll).Error)
	return &poll
}
