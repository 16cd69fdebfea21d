package paymentRoutes

import (
	controllers "elearn/controllers/payment"
	"elearn/middleware"
	validators "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up checkout, payment history and the processor
// webhook.
func SetupPaymentRoutes(app *fiber.App) {
	app.Post("/course/:id/checkout", middleware.Protected, validators.CourseID(), controllers.Checkout)

	paymentGroup := app.Group("/payments")
	paymentGroup.Get("/history", middleware.Protected, controllers.PaymentHistory)

	// Authenticated by signature, not by session
	paymentGroup.Post("/webhook", controllers.HandleWebhook)
}
