package course

import (
	"time"

	"gorm.io/gorm"
)

// VideoWatch tracks a student's playback state for one video.
// One row per (student, video); completion flips at 90% progress.
type VideoWatch struct {
	gorm.Model
	StudentID    uint       `json:"student_id" gorm:"index;not null;uniqueIndex:idx_student_video"`
	VideoID      uint       `json:"video_id" gorm:"index;not null;uniqueIndex:idx_student_video"`
	WatchTime    int        `json:"watch_time" gorm:"default:0"` // total watch time in seconds
	Progress     float64    `json:"progress" gorm:"default:0"`   // percentage watched (0-100)
	LastPosition int        `json:"last_position" gorm:"default:0"`
	IsCompleted  bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at"`
}

// MaterialView tracks a student opening a material. Completed on first view.
type MaterialView struct {
	gorm.Model
	StudentID   uint `json:"student_id" gorm:"index;not null;uniqueIndex:idx_student_material"`
	MaterialID  uint `json:"material_id" gorm:"index;not null;uniqueIndex:idx_student_material"`
	IsCompleted bool `json:"is_completed" gorm:"default:false"`
}
