package course

import "gorm.io/gorm"

// Unit is an ordered section within a course
type Unit struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_order"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Order       int    `json:"order" gorm:"column:order_index;default:0;uniqueIndex:idx_course_order"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Video is an ordered lecture video within a unit
type Video struct {
	gorm.Model
	UnitID       uint   `json:"unit_id" gorm:"index;not null;uniqueIndex:idx_unit_order"`
	Title        string `json:"title" gorm:"not null"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration" gorm:"default:0"` // seconds
	Order        int    `json:"order" gorm:"column:order_index;default:0;uniqueIndex:idx_unit_order"`
	IsFree       bool   `json:"is_free" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Material types
const (
	MaterialPDF   = "pdf"
	MaterialDoc   = "doc"
	MaterialSlide = "slide"
	MaterialOther = "other"
)

// Material is a downloadable study resource attached to a unit
type Material struct {
	gorm.Model
	UnitID         uint   `json:"unit_id" gorm:"index;not null"`
	Title          string `json:"title" gorm:"not null"`
	FileURL        string `json:"file_url"`
	MaterialType   string `json:"material_type" gorm:"default:'pdf'"` // pdf, doc, slide, other
	IsFree         bool   `json:"is_free" gorm:"default:false"`
	IsDownloadable bool   `json:"is_downloadable" gorm:"default:true"`
	IsDeleted      bool   `gorm:"default:false"`
}
