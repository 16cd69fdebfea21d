package utils

import (
	"log"
	"time"

	"elearn/database"
	"elearn/models"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"
	quizModels "elearn/models/quiz"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// pendingPurchaseTTL bounds how long an unpaid checkout may stay open
const pendingPurchaseTTL = 24 * time.Hour

// InitializeSchedulers starts the background jobs: stale checkout expiry and
// quiz deadline reminders.
func InitializeSchedulers() *cron.Cron {
	log.Println("[SCHEDULER] Initializing background schedulers...")

	c := cron.New()

	// Hourly sweep of abandoned checkouts
	c.AddFunc("0 * * * *", func() {
		ExpireStalePurchases()
	})

	// Daily at 9 AM: remind students about quizzes closing in 2 days
	c.AddFunc("0 9 * * *", func() {
		SendQuizDeadlineReminders()
	})

	c.Start()
	log.Println("[SCHEDULER] Background schedulers started")
	return c
}

// ExpireStalePurchases fails pending purchases older than the checkout TTL
func ExpireStalePurchases() {
	db := database.Database.Db
	cutoff := time.Now().Add(-pendingPurchaseTTL)

	result := db.Model(&paymentModels.Purchase{}).
		Where("status = ? AND created_at < ?", paymentModels.StatusPending, cutoff).
		Update("status", paymentModels.StatusFailed)

	if result.Error != nil {
		log.Printf("[SCHEDULER] Error expiring stale purchases: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[SCHEDULER] Expired %d stale purchases", result.RowsAffected)
	}
}

// SendQuizDeadlineReminders mails every enrolled student whose quiz closes
// two days from today.
func SendQuizDeadlineReminders() {
	db := database.Database.Db

	target := time.Now().AddDate(0, 0, 2)
	windowStart := now.With(target).BeginningOfDay()
	windowEnd := now.With(target).EndOfDay()

	var quizzes []quizModels.Quiz
	if err := db.Where("is_active = ? AND is_deleted = ? AND deadline BETWEEN ? AND ?", true, false, windowStart, windowEnd).
		Find(&quizzes).Error; err != nil {
		log.Printf("[SCHEDULER] Error fetching closing quizzes: %v", err)
		return
	}

	log.Printf("[SCHEDULER] Found %d quizzes closing in 2 days", len(quizzes))

	for _, quiz := range quizzes {
		var video courseModels.Video
		if err := db.Where("id = ?", quiz.VideoID).First(&video).Error; err != nil {
			continue
		}
		var unit courseModels.Unit
		if err := db.Where("id = ?", video.UnitID).First(&unit).Error; err != nil {
			continue
		}

		// Skip students who already passed the quiz
		var enrollments []courseModels.CourseEnrollment
		db.Where("course_id = ? AND is_active = ?", unit.CourseID, true).Find(&enrollments)

		for _, enrollment := range enrollments {
			var passed int64
			db.Model(&quizModels.QuizAttempt{}).
				Where("student_id = ? AND quiz_id = ? AND is_passed = ?", enrollment.StudentID, quiz.ID, true).
				Count(&passed)
			if passed > 0 {
				continue
			}

			var student models.User
			if err := db.Where("id = ? AND is_deleted = ?", enrollment.StudentID, false).First(&student).Error; err != nil {
				continue
			}

			go SendQuizDeadlineReminder(student.Email, student.Username, quiz.Title, quiz.Deadline)
			log.Printf("[SCHEDULER] Sent quiz deadline reminder for quiz %d to %s", quiz.ID, student.Email)
		}
	}
}
