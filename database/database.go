package database

import (
	"fmt"
	"log"
	"os"

	"elearn/models"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"
	quizModels "elearn/models/quiz"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations for every model
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.ActivityLog{},
		&courseModels.Category{},
		&courseModels.Course{},
		&courseModels.Unit{},
		&courseModels.Video{},
		&courseModels.Material{},
		&courseModels.VideoWatch{},
		&courseModels.MaterialView{},
		&courseModels.CourseEnrollment{},
		&quizModels.Quiz{},
		&quizModels.Question{},
		&quizModels.Answer{},
		&quizModels.QuizAttempt{},
		&quizModels.StudentAnswer{},
		&quizModels.Leaderboard{},
		&paymentModels.Purchase{},
		&paymentModels.Transaction{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
