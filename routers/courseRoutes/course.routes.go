package courseRoutes

import (
	controllers "elearn/controllers/course"
	"elearn/middleware"
	validators "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the student-facing catalog, enrollment and
// progress routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.Protected, validators.CourseList(), controllers.GetCatalog)
	courseGroup.Get("/slug/:slug", middleware.Protected, controllers.GetCourseBySlug)

	// Enrollment and learning
	courseGroup.Post("/:id/enroll", middleware.Protected, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Get("/:id/learn", middleware.Protected, validators.CourseID(), controllers.LearnCourse)
	courseGroup.Get("/:id/progress", middleware.Protected, validators.CourseID(), controllers.GetMyProgress)

	// Progress tracking
	videoGroup := app.Group("/video")
	videoGroup.Post("/:id/progress", middleware.Protected, validators.TrackProgress(), controllers.TrackVideoProgress)

	materialGroup := app.Group("/material")
	materialGroup.Get("/:id/view", middleware.Protected, validators.ViewMaterial(), controllers.ViewMaterial)

	// My enrollments
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.Protected, controllers.GetMyCourses)
}
