package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"polls-service/config"
	"polls-service/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared database handle. Tests replace it with an in-memory
// SQLite connection.
var DB *gorm.DB

// InitDB opens the MySQL connection, runs migrations and seeds the
// answer-type reference rows.
func InitDB(cfg *config.Config) error {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	if cfg.Environment == "development" {
		createSampleData()
	}

	log.Println("Database connection and migration successful")
	return nil
}

// Migrate runs the schema migration and seeds reference data. It is shared
// with the test setup, which runs it against SQLite.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.AnswerType{},
		&models.AnswerOption{},
		&models.Question{},
		&models.Poll{},
		&models.UserPollAnswer{},
		&models.UserPollQuestionAnswer{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate models: %v", err)
	}
	return SeedAnswerTypes(db)
}

// SeedAnswerTypes inserts the fixed answer-type vocabulary. The rows are
// reference data and are never modified afterwards.
func SeedAnswerTypes(db *gorm.DB) error {
	for _, name := range []string{
		models.AnswerTypeText,
		models.AnswerTypeChoice,
		models.AnswerTypeChoiceMulti,
	} {
		at := models.AnswerType{Type: name}
		if err := db.Where("type = ?", name).FirstOrCreate(&at).Error; err != nil {
			return fmt.Errorf("failed to seed answer type %q: %v", name, err)
		}
	}
	return nil
}

// Alive is a query scope excluding soft-deleted rows. Every read path must
// apply it (joined tables need a qualified WHERE instead).
func Alive(db *gorm.DB) *gorm.DB {
	return db.Where("is_delete = ?", false)
}

// createSampleData seeds a demo poll in development mode.
func createSampleData() {
	var count int64
	DB.Model(&models.Poll{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data, skipping sample data")
		return
	}

	log.Println("Creating sample data...")

	var textType, choiceType models.AnswerType
	DB.Where("type = ?", models.AnswerTypeText).First(&textType)
	DB.Where("type = ?", models.AnswerTypeChoice).First(&choiceType)

	start := time.Now().AddDate(0, 0, -1)
	end := time.Now().AddDate(0, 0, 7)
	poll := models.Poll{
		Name:        "Developer survey",
		StartDate:   &start,
		EndDate:     &end,
		Description: "Sample poll created in development mode",
		Questions: []models.Question{
			{Text: "What do you like about Go?", AnswerTypeID: textType.ID},
			{
				Text:         "Which editor do you use?",
				AnswerTypeID: choiceType.ID,
				Options: []models.AnswerOption{
					{Text: "VS Code"},
					{Text: "GoLand"},
					{Text: "Vim"},
				},
			},
		},
	}

	if err := DB.Create(&poll).Error; err != nil {
		log.Printf("Failed to create sample poll: %v", err)
		return
	}

	log.Println("Sample data created successfully")
}

// CloseDB closes the underlying connection pool.
func CloseDB() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
		return
	}
	log.Println("Database connection closed")
}
