package controllers

import (
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// tutorOwnedCourse loads a course owned by the caller. Admins may touch any
// course.
func tutorOwnedCourse(c *fiber.Ctx, courseID int) (*courseModels.Course, error) {
	user, _ := c.Locals("user").(models.User)

	db := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false)
	if !user.IsAdmin() {
		db = db.Where("tutor_id = ?", user.ID)
	}

	var course courseModels.Course
	if err := db.First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GetTutorCourses lists the courses owned by the calling tutor
func GetTutorCourses(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.Where("tutor_id = ? AND is_deleted = ?", user.ID, false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetTutorCourseDetail returns one owned course with its full outline
func GetTutorCourseDetail(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := tutorOwnedCourse(c, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course": course,
		"units":  loadCourseOutline(course.ID),
	})
}

// CreateUnit adds an ordered unit to an owned course
func CreateUnit(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := tutorOwnedCourse(c, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedUnit").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Order       int    `json:"order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// (course, order) must stay unique
	var clash courseModels.Unit
	if err := database.Database.Db.Where("course_id = ? AND order_index = ? AND is_deleted = ?", course.ID, reqData.Order, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A unit with this order already exists in the course!", nil)
	}

	unit := courseModels.Unit{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Order:       reqData.Order,
	}

	if err := database.Database.Db.Create(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create unit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Unit created successfully!", unit)
}

// UpdateUnit edits an owned unit's title, description or order
func UpdateUnit(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(int)

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", unitID, false).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	if _, err := tutorOwnedCourse(c, int(unit.CourseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedUnit").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Order       int    `json:"order"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Order != unit.Order {
		var clash courseModels.Unit
		if err := database.Database.Db.Where("course_id = ? AND order_index = ? AND id != ? AND is_deleted = ?", unit.CourseID, reqData.Order, unit.ID, false).First(&clash).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A unit with this order already exists in the course!", nil)
		}
	}

	unit.Title = reqData.Title
	unit.Description = reqData.Description
	unit.Order = reqData.Order

	if err := database.Database.Db.Save(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update unit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unit updated successfully!", unit)
}

// AddVideo attaches an ordered video to an owned unit
func AddVideo(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(int)

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", unitID, false).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	if _, err := tutorOwnedCourse(c, int(unit.CourseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedVideo").(*struct {
		Title    string `json:"title"`
		VideoURL string `json:"video_url"`
		Duration int    `json:"duration"`
		Order    int    `json:"order"`
		IsFree   bool   `json:"is_free"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// (unit, order) must stay unique
	var clash courseModels.Video
	if err := database.Database.Db.Where("unit_id = ? AND order_index = ? AND is_deleted = ?", unit.ID, reqData.Order, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A video with this order already exists in the unit!", nil)
	}

	video := courseModels.Video{
		UnitID:   unit.ID,
		Title:    reqData.Title,
		VideoURL: reqData.VideoURL,
		Duration: reqData.Duration,
		Order:    reqData.Order,
		IsFree:   reqData.IsFree,
	}

	if err := database.Database.Db.Create(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Video added successfully!", video)
}

// UpdateVideo edits an owned video's metadata or order
func UpdateVideo(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", videoID, false).First(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ?", video.UnitID).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	if _, err := tutorOwnedCourse(c, int(unit.CourseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedVideo").(*struct {
		Title    string `json:"title"`
		VideoURL string `json:"video_url"`
		Duration int    `json:"duration"`
		Order    int    `json:"order"`
		IsFree   bool   `json:"is_free"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Order != video.Order {
		var clash courseModels.Video
		if err := database.Database.Db.Where("unit_id = ? AND order_index = ? AND id != ? AND is_deleted = ?", video.UnitID, reqData.Order, video.ID, false).First(&clash).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A video with this order already exists in the unit!", nil)
		}
	}

	video.Title = reqData.Title
	video.VideoURL = reqData.VideoURL
	video.Duration = reqData.Duration
	video.Order = reqData.Order
	video.IsFree = reqData.IsFree

	if err := database.Database.Db.Save(&video).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video updated successfully!", video)
}

// AddMaterial attaches a study material to an owned unit
func AddMaterial(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(int)

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", unitID, false).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	if _, err := tutorOwnedCourse(c, int(unit.CourseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedMaterial").(*struct {
		Title          string `json:"title"`
		FileURL        string `json:"file_url"`
		MaterialType   string `json:"material_type"`
		IsFree         bool   `json:"is_free"`
		IsDownloadable bool   `json:"is_downloadable"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	materialType := reqData.MaterialType
	if materialType == "" {
		materialType = courseModels.MaterialPDF
	}

	material := courseModels.Material{
		UnitID:         unit.ID,
		Title:          reqData.Title,
		FileURL:        reqData.FileURL,
		MaterialType:   materialType,
		IsFree:         reqData.IsFree,
		IsDownloadable: reqData.IsDownloadable,
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material uploaded successfully!", material)
}

// GetStudentProgress lists every enrollment of an owned course with its
// aggregate progress.
func GetStudentProgress(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := tutorOwnedCourse(c, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollments []courseModels.CourseEnrollment
	database.Database.Db.Where("course_id = ?", course.ID).Order("progress desc").Find(&enrollments)

	type StudentProgress struct {
		Enrollment courseModels.CourseEnrollment `json:"enrollment"`
		Username   string                        `json:"username"`
	}

	list := make([]StudentProgress, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var student models.User
		if err := database.Database.Db.Select("username").Where("id = ?", enrollment.StudentID).First(&student).Error; err != nil {
			continue
		}
		list = append(list, StudentProgress{Enrollment: enrollment, Username: student.Username})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"course":   course,
		"students": list,
	})
}
