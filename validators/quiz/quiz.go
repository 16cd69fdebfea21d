package quizValidator

import (
	"strconv"
	"strings"

	controllers "elearn/controllers/quiz"
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

// QuizID validates the quiz id in the URL
func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid quiz ID is required in the URL!", nil)
		}
		c.Locals("quizID", id)
		return c.Next()
	}
}

// AttemptID validates the attempt id in the URL
func AttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid attempt ID is required in the URL!", nil)
		}
		c.Locals("attemptID", id)
		return c.Next()
	}
}

// UnitID validates the unit id in the URL for the leaderboard view
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

// SubmitQuiz validates the quiz id and the submitted answer sheet
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A valid quiz ID is required in the URL!", nil)
		}

		reqData := new(struct {
			Answers   []controllers.SubmittedAnswer `json:"answers"`
			TimeTaken int                           `json:"time_taken"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}
		for _, answer := range reqData.Answers {
			if answer.QuestionID == 0 {
				errors["answers"] = "Every answer needs a question ID!"
				break
			}
		}
		if reqData.TimeTaken < 0 {
			errors["time_taken"] = "Time taken cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("quizID", id)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
