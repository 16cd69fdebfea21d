package course

import "gorm.io/gorm"

// CourseEnrollment links a student to a course and carries the aggregate
// completion percentage. One row per (student, course).
type CourseEnrollment struct {
	gorm.Model
	StudentID uint    `json:"student_id" gorm:"index;not null;uniqueIndex:idx_student_course"`
	CourseID  uint    `json:"course_id" gorm:"index;not null;uniqueIndex:idx_student_course"`
	IsActive  bool    `json:"is_active" gorm:"default:true"`
	Progress  float64 `json:"progress" gorm:"default:0"` // completion percentage (0-100)
}
