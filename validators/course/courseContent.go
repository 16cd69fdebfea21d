package courseValidator

import (
	"strings"

	courseModels "elearn/models/course"

	"elearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// unitBody parses and checks the shared unit create/update body
func unitBody(c *fiber.Ctx) (*struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}, map[string]string, error) {
	reqData := new(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Order       int    `json:"order"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return nil, nil, err
	}

	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)
	if reqData.Title == "" {
		errors["title"] = "Title is required!"
	}
	if reqData.Order < 1 {
		errors["order"] = "Order must be greater than 0!"
	}

	return reqData, errors, nil
}

// CreateUnit validates the course id and the new unit body
func CreateUnit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid course ID is required in the URL!", nil)
		}

		reqData, errors, err := unitBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", id)
		c.Locals("validatedUnit", reqData)
		return c.Next()
	}
}

// UpdateUnit validates the unit id and the updated unit body
func UpdateUnit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid unit ID is required in the URL!", nil)
		}

		reqData, errors, err := unitBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("unitID", id)
		c.Locals("validatedUnit", reqData)
		return c.Next()
	}
}

// videoBody parses and checks the shared video create/update body
func videoBody(c *fiber.Ctx) (*struct {
	Title    string `json:"title"`
	VideoURL string `json:"video_url"`
	Duration int    `json:"duration"`
	Order    int    `json:"order"`
	IsFree   bool   `json:"is_free"`
}, map[string]string, error) {
	reqData := new(struct {
		Title    string `json:"title"`
		VideoURL string `json:"video_url"`
		Duration int    `json:"duration"`
		Order    int    `json:"order"`
		IsFree   bool   `json:"is_free"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return nil, nil, err
	}

	errors := make(map[string]string)

	reqData.Title = strings.TrimSpace(reqData.Title)
	if reqData.Title == "" {
		errors["title"] = "Title is required!"
	}
	if strings.TrimSpace(reqData.VideoURL) == "" {
		errors["video_url"] = "Video URL is required!"
	}
	if reqData.Duration < 1 {
		errors["duration"] = "Duration must be greater than 0!"
	}
	if reqData.Order < 1 {
		errors["order"] = "Order must be greater than 0!"
	}

	return reqData, errors, nil
}

// AddVideo validates the unit id and the new video body
func AddVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid unit ID is required in the URL!", nil)
		}

		reqData, errors, err := videoBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("unitID", id)
		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

// UpdateVideo validates the video id and the updated video body
func UpdateVideo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid video ID is required in the URL!", nil)
		}

		reqData, errors, err := videoBody(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("videoID", id)
		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

// AddMaterial validates the unit id and the new material body
func AddMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid unit ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title          string `json:"title"`
			FileURL        string `json:"file_url"`
			MaterialType   string `json:"material_type"`
			IsFree         bool   `json:"is_free"`
			IsDownloadable bool   `json:"is_downloadable"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.FileURL) == "" {
			errors["file_url"] = "File URL is required!"
		}
		if reqData.MaterialType != "" {
			switch reqData.MaterialType {
			case courseModels.MaterialPDF, courseModels.MaterialDoc, courseModels.MaterialSlide, courseModels.MaterialOther:
			default:
				errors["material_type"] = "Invalid material type!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("unitID", id)
		c.Locals("validatedMaterial", reqData)
		return c.Next()
	}
}
