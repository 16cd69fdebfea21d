package course

import "gorm.io/gorm"

// Category groups courses in the catalog
type Category struct {
	gorm.Model
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description" gorm:"type:text"`
}

// Course represents a learning course owned by a tutor
type Course struct {
	gorm.Model
	Title        string  `json:"title" gorm:"not null"`
	Slug         string  `json:"slug" gorm:"uniqueIndex"`
	Description  string  `json:"description" gorm:"type:text"`
	TutorID      uint    `json:"tutor_id" gorm:"index;not null"`
	CategoryID   *uint   `json:"category_id" gorm:"index"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Price        float64 `json:"price" gorm:"default:0"` // must be 0 when IsFree
	IsFree       bool    `json:"is_free" gorm:"default:false"`
	IsApproved   bool    `json:"is_approved" gorm:"default:false"`
	IsPublished  bool    `json:"is_published" gorm:"default:true"`
	IsDeleted    bool    `gorm:"default:false"`
}
