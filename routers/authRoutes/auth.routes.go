package authRoutes

import (
	controllers "elearn/controllers/auth"
	"elearn/middleware"
	validators "elearn/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up registration, login and session routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/register", validators.Register(), controllers.Register)
	authGroup.Post("/login", validators.Login(), controllers.Login)
	authGroup.Post("/logout", middleware.Protected, controllers.Logout)
	authGroup.Get("/me", middleware.Protected, controllers.Me)
}
