package adminValidator

import (
	"regexp"
	"strconv"
	"strings"

	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserID validates the user id in the URL
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid user ID is required in the URL!", nil)
		}
		c.Locals("userID", id)
		return c.Next()
	}
}

// CreateTutor validates the tutor onboarding body
func CreateTutor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Username  string `json:"username"`
			Email     string `json:"email"`
			Password  string `json:"password"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Bio       string `json:"bio"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if len(reqData.Username) < 3 || len(reqData.Username) > 50 {
			errors["username"] = "Username must be between 3 and 50 characters!"
		}
		if !emailRegex.MatchString(reqData.Email) {
			errors["email"] = "A valid email is required!"
		}
		if len(reqData.Password) < 6 {
			errors["password"] = "Password must be at least 6 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTutor", reqData)
		return c.Next()
	}
}

// UpdateUser validates the user id and the partial user update body
func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || id < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid user ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Role        *string `json:"role"`
			IsSuspended *bool   `json:"is_suspended"`
			FirstName   *string `json:"first_name"`
			LastName    *string `json:"last_name"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("userID", id)
		c.Locals("validatedUserUpdate", reqData)
		return c.Next()
	}
}
