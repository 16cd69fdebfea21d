package adminController

import (
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"

	"github.com/gofiber/fiber/v2"
)

// Dashboard aggregates the platform counters for the admin home screen
func Dashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalStudents, totalTutors, totalCourses, totalEnrollments int64
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleStudent, false).Count(&totalStudents)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleTutor, false).Count(&totalTutors)
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.CourseEnrollment{}).Where("is_active = ?", true).Count(&totalEnrollments)

	// Revenue counts completed purchases only
	var totalRevenue float64
	db.Model(&paymentModels.Purchase{}).
		Where("status = ?", paymentModels.StatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	var recentUsers []models.User
	db.Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recentUsers)

	var recentCourses []courseModels.Course
	db.Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recentCourses)

	var recentPurchases []paymentModels.Purchase
	db.Order("created_at desc").Limit(5).Find(&recentPurchases)

	var recentEnrollments []courseModels.CourseEnrollment
	db.Order("created_at desc").Limit(5).Find(&recentEnrollments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_students":     totalStudents,
		"total_tutors":       totalTutors,
		"total_courses":      totalCourses,
		"total_enrollments":  totalEnrollments,
		"total_revenue":      totalRevenue,
		"recent_users":       recentUsers,
		"recent_courses":     recentCourses,
		"recent_purchases":   recentPurchases,
		"recent_enrollments": recentEnrollments,
	})
}
