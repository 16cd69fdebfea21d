package paymentController

import (
	"strconv"

	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Checkout opens a payment for a paid course. Free courses short-circuit
// into a direct enrollment.
func Checkout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_approved = ? AND is_deleted = ?", courseID, true, true, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, course.ID, true).First(&enrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "You are already enrolled in this course.", enrollment)
	}

	if course.IsFree {
		enrollment = courseModels.CourseEnrollment{
			StudentID: userID,
			CourseID:  course.ID,
			IsActive:  true,
		}
		if err := database.Database.Db.Create(&enrollment).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in free course successfully!", enrollment)
	}

	// Reuse a still-pending purchase instead of opening a second intent
	var pending paymentModels.Purchase
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND status = ?", userID, course.ID, paymentModels.StatusPending).First(&pending).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout already in progress.", fiber.Map{
			"purchase":          pending,
			"payment_intent_id": pending.PaymentIntentID,
		})
	}

	intent, err := utils.CreatePaymentIntent(course.Price, config.AppConfig.PaymentCurrency, map[string]string{
		"student_id": strconv.FormatUint(uint64(userID), 10),
		"course_id":  strconv.FormatUint(uint64(course.ID), 10),
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Payment gateway is unavailable. Please try again later.", nil)
	}

	purchase := paymentModels.Purchase{
		StudentID:       userID,
		CourseID:        course.ID,
		Amount:          course.Price,
		Status:          paymentModels.StatusPending,
		PaymentIntentID: intent.ID,
		TransactionID:   uuid.NewString(),
	}

	if err := database.Database.Db.Create(&purchase).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start checkout!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checkout started successfully!", fiber.Map{
		"purchase":      purchase,
		"client_secret": intent.ClientSecret,
	})
}

// PaymentHistory lists the caller's purchases newest first
func PaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var purchases []paymentModels.Purchase
	if err := database.Database.Db.Where("student_id = ?", userID).Order("created_at desc").Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payment history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment history fetched successfully!", purchases)
}
