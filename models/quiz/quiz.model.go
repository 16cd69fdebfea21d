package quiz

import (
	"time"

	"gorm.io/gorm"
)

// Question types
const (
	QuestionMCQ       = "mcq"
	QuestionTrueFalse = "true_false"
)

// Quiz is attached one-to-one to a video
type Quiz struct {
	gorm.Model
	VideoID        uint       `json:"video_id" gorm:"uniqueIndex;not null"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description" gorm:"type:text"`
	PassPercentage int        `json:"pass_percentage" gorm:"default:70"`
	TimeLimit      int        `json:"time_limit" gorm:"default:30"` // minutes
	Deadline       *time.Time `json:"deadline"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsDeleted      bool       `gorm:"default:false"`
}

// IsDeadlinePassed reports whether the quiz deadline is behind the given time
func (q *Quiz) IsDeadlinePassed(at time.Time) bool {
	return q.Deadline != nil && at.After(*q.Deadline)
}

// IsAvailable reports whether students may still take the quiz
func (q *Quiz) IsAvailable(at time.Time) bool {
	return q.IsActive && !q.IsDeadlinePassed(at)
}

// Question belongs to the quiz's video and carries a point value
type Question struct {
	gorm.Model
	VideoID      uint   `json:"video_id" gorm:"index;not null"`
	QuestionText string `json:"question_text" gorm:"type:text;not null"`
	QuestionType string `json:"question_type" gorm:"default:'mcq'"` // mcq, true_false
	Points       int    `json:"points" gorm:"default:1"`
	Order        int    `json:"order" gorm:"column:order_index;default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Answer is one selectable option of a question
type Answer struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	AnswerText string `json:"answer_text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	Order      int    `json:"order" gorm:"column:order_index;default:0"`
}
