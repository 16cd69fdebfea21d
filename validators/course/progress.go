package courseValidator

import (
	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// TrackProgress validates the video id and the progress ping body
func TrackProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid video ID is required in the URL!", nil)
		}

		reqData := new(struct {
			WatchTime    int     `json:"watch_time"`
			Progress     float64 `json:"progress"`
			LastPosition int     `json:"last_position"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Progress < 0 || reqData.Progress > 100 {
			errors["progress"] = "Progress must be between 0 and 100!"
		}
		if reqData.WatchTime < 0 {
			errors["watch_time"] = "Watch time cannot be negative!"
		}
		if reqData.LastPosition < 0 {
			errors["last_position"] = "Last position cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("videoID", id)
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

// ViewMaterial validates the material id in the URL
func ViewMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid material ID is required in the URL!", nil)
		}

		c.Locals("materialID", id)
		return c.Next()
	}
}
