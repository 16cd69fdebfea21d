package controllers

import (
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"

	"github.com/gofiber/fiber/v2"
)

// GetCatalog lists published, approved courses with optional search and
// category filters.
func GetCatalog(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&courseModels.Course{}).
		Where("is_published = ? AND is_approved = ? AND is_deleted = ?", true, true, false)

	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	if category := c.QueryInt("category"); category > 0 {
		db = db.Where("category_id = ?", category)
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

// GetCourseBySlug returns a published course with its units, videos and
// materials, plus the caller's enrollment flag.
func GetCourseBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var course courseModels.Course
	if err := database.Database.Db.Where("slug = ? AND is_published = ? AND is_deleted = ?", slug, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	units := loadCourseOutline(course.ID)

	isEnrolled := false
	if userID, ok := c.Locals("userId").(uint); ok {
		var enrollment courseModels.CourseEnrollment
		if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, course.ID, true).First(&enrollment).Error; err == nil {
			isEnrolled = true
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":      course,
		"units":       units,
		"is_enrolled": isEnrolled,
	})
}

// UnitOutline is a unit with its ordered content
type UnitOutline struct {
	Unit      courseModels.Unit       `json:"unit"`
	Videos    []courseModels.Video    `json:"videos"`
	Materials []courseModels.Material `json:"materials"`
}

func loadCourseOutline(courseID uint) []UnitOutline {
	var units []courseModels.Unit
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&units)

	outline := make([]UnitOutline, len(units))
	for i, unit := range units {
		var videos []courseModels.Video
		database.Database.Db.Where("unit_id = ? AND is_deleted = ?", unit.ID, false).Order("order_index asc").Find(&videos)

		var materials []courseModels.Material
		database.Database.Db.Where("unit_id = ? AND is_deleted = ?", unit.ID, false).Order("title asc").Find(&materials)

		outline[i] = UnitOutline{Unit: unit, Videos: videos, Materials: materials}
	}
	return outline
}

// EnrollInCourse enrolls the caller in a course. Free courses enroll
// immediately; paid courses need a completed purchase first.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Idempotent: enrolling twice keeps the single existing row
	var existing courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "You are already enrolled in this course.", existing)
	}

	if !course.IsFree {
		var purchase paymentModels.Purchase
		if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND status = ?", userID, courseID, paymentModels.StatusCompleted).First(&purchase).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This course requires payment. Please complete checkout first.", nil)
		}
	}

	enrollment := courseModels.CourseEnrollment{
		StudentID: userID,
		CourseID:  uint(courseID),
		IsActive:  true,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// LearnCourse opens the learning view; a free course auto-enrolls the caller
// on first access.
func LearnCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrollment, err := ensureEnrollmentForAccess(userID, &course)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You need to enroll in this course first.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", fiber.Map{
		"course":     course,
		"units":      loadCourseOutline(course.ID),
		"enrollment": enrollment,
	})
}

// GetMyCourses lists the caller's active enrollments with course details
func GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND is_active = ?", userID, true).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrolledCourse struct {
		Enrollment courseModels.CourseEnrollment `json:"enrollment"`
		Course     courseModels.Course           `json:"course"`
	}

	list := make([]EnrolledCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollment.CourseID, false).First(&course).Error; err != nil {
			continue
		}
		list = append(list, EnrolledCourse{Enrollment: enrollment, Course: course})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", list)
}
