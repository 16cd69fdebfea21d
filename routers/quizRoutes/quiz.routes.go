package quizRoutes

import (
	controllers "elearn/controllers/quiz"
	"elearn/middleware"
	"elearn/models"
	validators "elearn/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up the quiz taking, authoring and leaderboard routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	quizGroup.Get("/attempts/:id", middleware.Protected, validators.AttemptID(), controllers.GetQuizAttempt)
	quizGroup.Get("/:id/take", middleware.Protected, validators.QuizID(), controllers.TakeQuiz)
	quizGroup.Post("/:id/submit", middleware.Protected, validators.SubmitQuiz(), controllers.SubmitQuiz)

	unitGroup := app.Group("/unit")
	unitGroup.Get("/:id/leaderboard", middleware.Protected, validators.UnitID(), controllers.UnitLeaderboard)

	// Authoring
	tutorGroup := app.Group("/tutor", middleware.Protected, middleware.RequireRole(models.RoleTutor, models.RoleAdmin))
	tutorGroup.Post("/video/:id/quiz", validators.CreateQuiz(), controllers.CreateQuiz)
	tutorGroup.Patch("/quiz/:id", validators.UpdateQuiz(), controllers.UpdateQuiz)
	tutorGroup.Post("/quiz/:id/question", validators.AddQuestion(), controllers.AddQuestion)
	tutorGroup.Delete("/question/:id", validators.QuestionID(), controllers.DeleteQuestion)
	tutorGroup.Get("/quiz/:id/analytics", validators.QuizID(), controllers.QuizAnalytics)
}
