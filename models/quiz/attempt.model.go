package quiz

import (
	"time"

	"gorm.io/gorm"
)

// QuizAttempt is one scored submission of a quiz by a student.
// It is terminal once CompletedAt is set.
type QuizAttempt struct {
	gorm.Model
	StudentID   uint       `json:"student_id" gorm:"index;not null"`
	QuizID      uint       `json:"quiz_id" gorm:"index;not null"`
	VideoID     uint       `json:"video_id" gorm:"index;not null"`
	Score       float64    `json:"score" gorm:"default:0"`
	TotalPoints int        `json:"total_points" gorm:"default:0"`
	Percentage  float64    `json:"percentage" gorm:"default:0"`
	IsPassed    bool       `json:"is_passed" gorm:"default:false"`
	TimeTaken   int        `json:"time_taken" gorm:"default:0"` // seconds
	CompletedAt *time.Time `json:"completed_at"`
}

// StudentAnswer records one graded (question, selected answer) pair of an attempt
type StudentAnswer struct {
	gorm.Model
	AttemptID        uint    `json:"attempt_id" gorm:"index;not null;uniqueIndex:idx_attempt_question"`
	QuestionID       uint    `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	SelectedAnswerID *uint   `json:"selected_answer_id"`
	IsCorrect        bool    `json:"is_correct" gorm:"default:false"`
	PointsEarned     float64 `json:"points_earned" gorm:"default:0"`
}

// Leaderboard ranks students within a unit by their quiz results
type Leaderboard struct {
	gorm.Model
	UnitID       uint    `json:"unit_id" gorm:"index;not null;uniqueIndex:idx_unit_student"`
	StudentID    uint    `json:"student_id" gorm:"index;not null;uniqueIndex:idx_unit_student"`
	TotalScore   float64 `json:"total_score" gorm:"default:0"`
	TotalQuizzes int     `json:"total_quizzes" gorm:"default:0"`
	AverageScore float64 `json:"average_score" gorm:"default:0"`
	Rank         int     `json:"rank" gorm:"default:0"`
}
