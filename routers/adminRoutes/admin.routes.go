package adminRoutes

import (
	adminController "elearn/controllers/admin"
	courseController "elearn/controllers/course"
	"elearn/middleware"
	"elearn/models"
	adminValidator "elearn/validators/admin"
	courseValidator "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the admin dashboard, user and catalog management
// routes.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.Protected, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Get("/dashboard", adminController.Dashboard)

	// User management
	adminGroup.Get("/users", adminController.ListUsers)
	adminGroup.Post("/tutor", adminValidator.CreateTutor(), adminController.CreateTutor)
	adminGroup.Patch("/user/:id", adminValidator.UpdateUser(), adminController.UpdateUser)
	adminGroup.Delete("/user/:id", adminValidator.UserID(), adminController.DeleteUser)

	// Catalog management
	adminGroup.Get("/courses", courseController.GetAllCourses)
	adminGroup.Post("/course", courseValidator.CreateCourse(), courseController.CreateCourse)
	adminGroup.Patch("/course/:id", courseValidator.UpdateCourse(), courseController.UpdateCourse)
	adminGroup.Delete("/course/:id", courseValidator.CourseID(), courseController.DeleteCourse)
	adminGroup.Post("/category", courseController.CreateCategory)
}
