package quizValidator

import (
	"strings"
	"time"

	"elearn/middleware"
	quizModels "elearn/models/quiz"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz validates the video id and the new quiz body
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid video ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title          string     `json:"title"`
			Description    string     `json:"description"`
			PassPercentage *int       `json:"pass_percentage"`
			TimeLimit      *int       `json:"time_limit"`
			Deadline       *time.Time `json:"deadline"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Title = strings.TrimSpace(reqData.Title)
		if reqData.Title == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.PassPercentage != nil && (*reqData.PassPercentage < 1 || *reqData.PassPercentage > 100) {
			errors["pass_percentage"] = "Pass percentage must be between 1 and 100!"
		}
		if reqData.TimeLimit != nil && *reqData.TimeLimit < 1 {
			errors["time_limit"] = "Time limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("videoID", id)
		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

// UpdateQuiz validates the quiz id and the partial update body
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid quiz ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Title          *string    `json:"title"`
			Description    *string    `json:"description"`
			PassPercentage *int       `json:"pass_percentage"`
			TimeLimit      *int       `json:"time_limit"`
			Deadline       *time.Time `json:"deadline"`
			ClearDeadline  bool       `json:"clear_deadline"`
			IsActive       *bool      `json:"is_active"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.PassPercentage != nil && (*reqData.PassPercentage < 1 || *reqData.PassPercentage > 100) {
			errors["pass_percentage"] = "Pass percentage must be between 1 and 100!"
		}
		if reqData.TimeLimit != nil && *reqData.TimeLimit < 1 {
			errors["time_limit"] = "Time limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", id)
		c.Locals("validatedQuizUpdate", reqData)
		return c.Next()
	}
}

// AddQuestion validates the quiz id and the question body with its options
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid quiz ID is required in the URL!", nil)
		}

		reqData := new(struct {
			QuestionText string `json:"question_text"`
			QuestionType string `json:"question_type"`
			Points       int    `json:"points"`
			Order        int    `json:"order"`
			Answers      []struct {
				AnswerText string `json:"answer_text"`
				IsCorrect  bool   `json:"is_correct"`
			} `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.QuestionText = strings.TrimSpace(reqData.QuestionText)
		if reqData.QuestionText == "" {
			errors["question_text"] = "Question text is required!"
		}
		if reqData.QuestionType != "" {
			switch reqData.QuestionType {
			case quizModels.QuestionMCQ, quizModels.QuestionTrueFalse:
			default:
				errors["question_type"] = "Invalid question type!"
			}
		}
		if len(reqData.Answers) < 2 {
			errors["answers"] = "At least two answer options are required!"
		} else {
			correct := 0
			for _, option := range reqData.Answers {
				if strings.TrimSpace(option.AnswerText) == "" {
					errors["answers"] = "Answer options cannot be empty!"
					break
				}
				if option.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				errors["answers"] = "Exactly one answer option must be correct!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", id)
		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// QuestionID validates the question id in the URL
func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid question ID is required in the URL!", nil)
		}
		c.Locals("questionID", id)
		return c.Next()
	}
}
