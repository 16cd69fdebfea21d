package courseValidator

import (
	"strconv"
	"strings"

	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// idParam parses the ":id" URL segment into a positive integer
func idParam(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// CourseID validates the course id in the URL
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course ID is required in the URL!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// UnitID validates the unit id in the URL
func UnitID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid unit ID is required in the URL!", nil)
		}
		c.Locals("unitID", id)
		return c.Next()
	}
}

// CourseList validates catalog pagination, defaulting page and limit
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		defaultPage := 1
		defaultLimit := 10
		if reqData.Page == nil {
			reqData.Page = &defaultPage
		}
		if reqData.Limit == nil {
			reqData.Limit = &defaultLimit
		}

		errors := make(map[string]string)

		if *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if *reqData.Limit < 1 || *reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}
