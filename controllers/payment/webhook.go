package paymentController

import (
	"encoding/json"
	"log"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
)

// WebhookSignatureHeader carries the processor's payload signature
const WebhookSignatureHeader = "Webhook-Signature"

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// HandleWebhook receives payment events from the processor. The signature is
// verified against the raw body before anything is parsed; replays of an
// already-settled intent are acknowledged without touching state.
func HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	sigHeader := c.Get(WebhookSignatureHeader)
	if err := utils.VerifyWebhookSignature(payload, sigHeader, config.AppConfig.PaymentWebhookSecret); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook signature!", nil)
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid webhook payload!", nil)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		handlePaymentSucceeded(event.Data.Object.ID)
	case "payment_intent.payment_failed":
		handlePaymentFailed(event.Data.Object.ID)
	default:
		// Unknown event types are acknowledged and dropped
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Webhook processed.", nil)
}

func handlePaymentSucceeded(intentID string) {
	var purchase paymentModels.Purchase
	if err := database.Database.Db.Where("payment_intent_id = ?", intentID).First(&purchase).Error; err != nil {
		log.Printf("Webhook for unknown payment intent %s", intentID)
		return
	}

	// Only a pending purchase can settle; anything else is a replay
	if purchase.Status != paymentModels.StatusPending {
		return
	}

	now := time.Now()

	tx := database.Database.Db.Begin()

	purchase.Status = paymentModels.StatusCompleted
	purchase.CompletedAt = &now
	if err := tx.Save(&purchase).Error; err != nil {
		tx.Rollback()
		log.Printf("Error completing purchase %d: %v", purchase.ID, err)
		return
	}

	var enrollment courseModels.CourseEnrollment
	if err := tx.Where("student_id = ? AND course_id = ?", purchase.StudentID, purchase.CourseID).First(&enrollment).Error; err != nil {
		enrollment = courseModels.CourseEnrollment{
			StudentID: purchase.StudentID,
			CourseID:  purchase.CourseID,
			IsActive:  true,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			tx.Rollback()
			log.Printf("Error enrolling student %d after purchase %d: %v", purchase.StudentID, purchase.ID, err)
			return
		}
	} else if !enrollment.IsActive {
		enrollment.IsActive = true
		tx.Save(&enrollment)
	}

	transaction := paymentModels.Transaction{
		PurchaseID:      purchase.ID,
		TransactionType: paymentModels.TxnPurchase,
		Amount:          purchase.Amount,
		ChargeID:        intentID,
		Description:     "Course purchase settled by payment processor",
	}
	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		log.Printf("Error recording transaction for purchase %d: %v", purchase.ID, err)
		return
	}

	tx.Commit()

	var student models.User
	var course courseModels.Course
	if database.Database.Db.Where("id = ?", purchase.StudentID).First(&student).Error == nil &&
		database.Database.Db.Where("id = ?", purchase.CourseID).First(&course).Error == nil {
		go utils.SendPurchaseReceipt(student.Email, student.Username, course.Title, purchase.Amount, purchase.TransactionID)
	}
}

func handlePaymentFailed(intentID string) {
	var purchase paymentModels.Purchase
	if err := database.Database.Db.Where("payment_intent_id = ?", intentID).First(&purchase).Error; err != nil {
		return
	}
	if purchase.Status != paymentModels.StatusPending {
		return
	}

	purchase.Status = paymentModels.StatusFailed
	if err := database.Database.Db.Save(&purchase).Error; err != nil {
		log.Printf("Error failing purchase %d: %v", purchase.ID, err)
	}
}
