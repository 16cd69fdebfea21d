package courseValidator

import (
	"strings"

	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse validates the admin course creation body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description string  `json:"description"`
			TutorID     uint    `json:"tutor_id"`
			CategoryID  *uint   `json:"category_id"`
			Price       float64 `json:"price"`
			IsFree      bool    `json:"is_free"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		} else if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		} else if len(reqData.Title) > 200 {
			errors["title"] = "Title must not exceed 200 characters!"
		}

		if reqData.Description == "" {
			errors["description"] = "Description is required!"
		}

		if reqData.TutorID == 0 {
			errors["tutor_id"] = "Tutor is required!"
		}

		if !reqData.IsFree && reqData.Price <= 0 {
			errors["price"] = "A paid course needs a price greater than 0!"
		}
		if reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the course id and the partial update body
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title       *string  `json:"title"`
			Description *string  `json:"description"`
			TutorID     *uint    `json:"tutor_id"`
			CategoryID  *uint    `json:"category_id"`
			Price       *float64 `json:"price"`
			IsFree      *bool    `json:"is_free"`
			IsPublished *bool    `json:"is_published"`
			IsApproved  *bool    `json:"is_approved"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil {
			trimmed := strings.TrimSpace(*reqData.Title)
			if len(trimmed) < 3 {
				errors["title"] = "Title must be at least 3 characters long!"
			}
			*reqData.Title = trimmed
		}
		if reqData.Price != nil && *reqData.Price < 0 {
			errors["price"] = "Price cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", id)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}
