package controllers

import (
	"strconv"
	"strings"

	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"

	"github.com/gofiber/fiber/v2"
)

// slugify turns a course title into a url-safe unique slug
func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func ensureUniqueSlug(base string) string {
	slug := base
	for i := 2; ; i++ {
		var existing courseModels.Course
		if err := database.Database.Db.Where("slug = ?", slug).First(&existing).Error; err != nil {
			return slug
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}

// CreateCourse creates a course and assigns it to a tutor. Free courses are
// forced to a zero price. Admin-created courses are auto-approved.
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string  `json:"title"`
		Description string  `json:"description"`
		TutorID     uint    `json:"tutor_id"`
		CategoryID  *uint   `json:"category_id"`
		Price       float64 `json:"price"`
		IsFree      bool    `json:"is_free"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// The assigned owner must actually be a tutor
	var tutor models.User
	if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = ?", reqData.TutorID, models.RoleTutor, false).First(&tutor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tutor not found!", nil)
	}

	if reqData.CategoryID != nil {
		var category courseModels.Category
		if err := database.Database.Db.Where("id = ?", *reqData.CategoryID).First(&category).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
		}
	}

	price := reqData.Price
	if reqData.IsFree {
		price = 0
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Slug:        ensureUniqueSlug(slugify(reqData.Title)),
		Description: reqData.Description,
		TutorID:     reqData.TutorID,
		CategoryID:  reqData.CategoryID,
		Price:       price,
		IsFree:      reqData.IsFree,
		IsApproved:  true,
		IsPublished: true,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse edits a course's catalog fields
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		TutorID     *uint    `json:"tutor_id"`
		CategoryID  *uint    `json:"category_id"`
		Price       *float64 `json:"price"`
		IsFree      *bool    `json:"is_free"`
		IsPublished *bool    `json:"is_published"`
		IsApproved  *bool    `json:"is_approved"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.TutorID != nil {
		var tutor models.User
		if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = ?", *reqData.TutorID, models.RoleTutor, false).First(&tutor).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tutor not found!", nil)
		}
		course.TutorID = *reqData.TutorID
	}
	if reqData.CategoryID != nil {
		course.CategoryID = reqData.CategoryID
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.IsFree != nil {
		course.IsFree = *reqData.IsFree
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}
	if reqData.IsApproved != nil {
		course.IsApproved = *reqData.IsApproved
	}

	// A free course never carries a price
	if course.IsFree {
		course.Price = 0
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetAllCourses lists every course for the admin view, including drafts
func GetAllCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// CreateCategory adds a catalog category
func CreateCategory(c *fiber.Ctx) error {
	reqData := new(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	if strings.TrimSpace(reqData.Name) == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"name": "Name is required!"})
	}

	category := courseModels.Category{
		Name:        strings.TrimSpace(reqData.Name),
		Description: reqData.Description,
	}
	if err := database.Database.Db.Create(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}
