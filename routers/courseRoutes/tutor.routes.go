package courseRoutes

import (
	controllers "elearn/controllers/course"
	"elearn/middleware"
	"elearn/models"
	validators "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupTutorRoutes sets up the tutor authoring routes
func SetupTutorRoutes(app *fiber.App) {
	tutorGroup := app.Group("/tutor", middleware.Protected, middleware.RequireRole(models.RoleTutor, models.RoleAdmin))

	tutorGroup.Get("/courses", controllers.GetTutorCourses)
	tutorGroup.Get("/course/:id", validators.CourseID(), controllers.GetTutorCourseDetail)
	tutorGroup.Get("/course/:id/students", validators.CourseID(), controllers.GetStudentProgress)

	tutorGroup.Post("/course/:id/unit", validators.CreateUnit(), controllers.CreateUnit)
	tutorGroup.Patch("/unit/:id", validators.UpdateUnit(), controllers.UpdateUnit)
	tutorGroup.Post("/unit/:id/video", validators.AddVideo(), controllers.AddVideo)
	tutorGroup.Patch("/video/:id", validators.UpdateVideo(), controllers.UpdateVideo)
	tutorGroup.Post("/unit/:id/material", validators.AddMaterial(), controllers.AddMaterial)
}
