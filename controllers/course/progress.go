package controllers

import (
	"log"
	"time"

	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// videoCompletionThreshold is the watch percentage at which a video counts
// as completed for enrollment progress.
const videoCompletionThreshold = 90.0

// TrackVideoProgress upserts the caller's watch state for a video from a
// progress ping and refreshes the enrollment aggregate.
func TrackVideoProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	videoID := c.Locals("videoID").(int)

	reqData, ok := c.Locals("validatedProgress").(*struct {
		WatchTime    int     `json:"watch_time"`
		Progress     float64 `json:"progress"`
		LastPosition int     `json:"last_position"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ?", video.UnitID).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	var watch courseModels.VideoWatch
	err := database.Database.Db.Where("student_id = ? AND video_id = ?", userID, videoID).First(&watch).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
		}
		watch = courseModels.VideoWatch{
			StudentID: userID,
			VideoID:   uint(videoID),
		}
	}

	wasCompleted := watch.IsCompleted

	watch.WatchTime = reqData.WatchTime
	watch.Progress = reqData.Progress
	watch.LastPosition = reqData.LastPosition
	watch.IsCompleted = reqData.Progress >= videoCompletionThreshold

	if watch.IsCompleted && !wasCompleted {
		now := time.Now()
		watch.CompletedAt = &now
	}

	if err := database.Database.Db.Save(&watch).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}

	// Refresh the enrollment aggregate when the student is enrolled
	var enrollment courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, unit.CourseID, true).First(&enrollment).Error; err == nil {
		recomputeEnrollmentProgress(userID, unit.CourseID)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress recorded!", fiber.Map{
		"status": "success",
	})
}

// ViewMaterial gates access to a study material, marks it viewed on first
// open and refreshes the enrollment aggregate.
func ViewMaterial(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ?", material.UnitID).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", unit.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, err := ensureEnrollmentForAccess(userID, &course)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You need to enroll in this course to access this material.", nil)
	}

	var view courseModels.MaterialView
	dbErr := database.Database.Db.Where("student_id = ? AND material_id = ?", userID, materialID).First(&view).Error
	if dbErr != nil {
		if dbErr != gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record material view!", nil)
		}
		view = courseModels.MaterialView{
			StudentID:  userID,
			MaterialID: uint(materialID),
		}
	}

	// Completed on first view; a second view is a no-op
	if !view.IsCompleted {
		view.IsCompleted = true
		if err := database.Database.Db.Save(&view).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record material view!", nil)
		}
		if enrollment != nil {
			recomputeEnrollmentProgress(userID, course.ID)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material fetched successfully!", fiber.Map{
		"material": material,
		"view":     view,
	})
}

// ensureEnrollmentForAccess resolves the enrollment that grants access to a
// course's content. Free courses enroll on first access; paid courses need a
// completed purchase before the enrollment materializes.
func ensureEnrollmentForAccess(userID uint, course *courseModels.Course) (*courseModels.CourseEnrollment, error) {
	db := database.Database.Db

	var enrollment courseModels.CourseEnrollment
	if err := db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, course.ID, true).First(&enrollment).Error; err == nil {
		return &enrollment, nil
	}

	if course.IsFree {
		enrollment = courseModels.CourseEnrollment{
			StudentID: userID,
			CourseID:  course.ID,
			IsActive:  true,
		}
		if err := db.Create(&enrollment).Error; err != nil {
			// Lost a race against a concurrent enroll; re-read the row
			if err2 := db.Where("student_id = ? AND course_id = ?", userID, course.ID).First(&enrollment).Error; err2 != nil {
				return nil, err
			}
		}
		return &enrollment, nil
	}

	var purchase paymentModels.Purchase
	if err := db.Where("student_id = ? AND course_id = ? AND status = ?", userID, course.ID, paymentModels.StatusCompleted).First(&purchase).Error; err != nil {
		return nil, err
	}

	enrollment = courseModels.CourseEnrollment{
		StudentID: userID,
		CourseID:  course.ID,
		IsActive:  true,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if err2 := db.Where("student_id = ? AND course_id = ?", userID, course.ID).First(&enrollment).Error; err2 != nil {
			return nil, err
		}
	}
	return &enrollment, nil
}

// recomputeEnrollmentProgress recalculates the completion percentage as
// (completed materials + completed videos) / (total materials + total videos).
// A course with no content leaves the stored progress untouched.
func recomputeEnrollmentProgress(userID uint, courseID uint) {
	db := database.Database.Db

	var totalMaterials int64
	db.Model(&courseModels.Material{}).
		Joins("JOIN units ON units.id = materials.unit_id").
		Where("units.course_id = ? AND materials.is_deleted = ? AND units.is_deleted = ?", courseID, false, false).
		Count(&totalMaterials)

	var totalVideos int64
	db.Model(&courseModels.Video{}).
		Joins("JOIN units ON units.id = videos.unit_id").
		Where("units.course_id = ? AND videos.is_deleted = ? AND units.is_deleted = ?", courseID, false, false).
		Count(&totalVideos)

	totalItems := totalMaterials + totalVideos
	if totalItems == 0 {
		return
	}

	var viewedMaterials int64
	db.Model(&courseModels.MaterialView{}).
		Joins("JOIN materials ON materials.id = material_views.material_id").
		Joins("JOIN units ON units.id = materials.unit_id").
		Where("material_views.student_id = ? AND units.course_id = ? AND material_views.is_completed = ?", userID, courseID, true).
		Count(&viewedMaterials)

	var completedVideos int64
	db.Model(&courseModels.VideoWatch{}).
		Joins("JOIN videos ON videos.id = video_watches.video_id").
		Joins("JOIN units ON units.id = videos.unit_id").
		Where("video_watches.student_id = ? AND units.course_id = ? AND video_watches.is_completed = ?", userID, courseID, true).
		Count(&completedVideos)

	var enrollment courseModels.CourseEnrollment
	if err := db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return
	}

	enrollment.Progress = float64(viewedMaterials+completedVideos) / float64(totalItems) * 100

	if err := db.Save(&enrollment).Error; err != nil {
		log.Printf("Error saving enrollment progress: %v", err)
	}
}

// GetMyProgress returns the caller's progress in one course
func GetMyProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, courseID, true).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this course!", nil)
	}

	var watches []courseModels.VideoWatch
	database.Database.Db.
		Joins("JOIN videos ON videos.id = video_watches.video_id").
		Joins("JOIN units ON units.id = videos.unit_id").
		Where("video_watches.student_id = ? AND units.course_id = ?", userID, courseID).
		Find(&watches)

	var views []courseModels.MaterialView
	database.Database.Db.
		Joins("JOIN materials ON materials.id = material_views.material_id").
		Joins("JOIN units ON units.id = materials.unit_id").
		Where("material_views.student_id = ? AND units.course_id = ?", userID, courseID).
		Find(&views)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":     enrollment,
		"video_watches":  watches,
		"material_views": views,
	})
}
