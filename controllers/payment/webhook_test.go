package paymentController_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/models"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"
	paymentRoutes "elearn/routers/paymentRoutes"
	"elearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testWebhookSecret = "whsec_test"

func setupPaymentApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		JWTKey:               "test-secret",
		SaltRound:            4,
		PaymentWebhookSecret: testWebhookSecret,
		PaymentCurrency:      "rwf",
	}

	app := fiber.New()
	paymentRoutes.SetupPaymentRoutes(app)
	return app
}

// seedPendingPurchase creates a paid course and an open purchase for it
func seedPendingPurchase(t *testing.T, intentID string) (models.User, courseModels.Course, paymentModels.Purchase) {
	db := database.Database.Db

	tutor := models.User{Username: "wtutor-" + uuid.NewString()[:8], Email: uuid.NewString() + "@example.com", Password: "x", Role: models.RoleTutor}
	require.NoError(t, db.Create(&tutor).Error)

	student := models.User{Username: "wstudent-" + uuid.NewString()[:8], Email: uuid.NewString() + "@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course := courseModels.Course{
		Title:       "Paid Course",
		Slug:        "paid-course-" + uuid.NewString()[:8],
		TutorID:     tutor.ID,
		Price:       50,
		IsApproved:  true,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	purchase := paymentModels.Purchase{
		StudentID:       student.ID,
		CourseID:        course.ID,
		Amount:          50,
		Status:          paymentModels.StatusPending,
		PaymentIntentID: intentID,
		TransactionID:   uuid.NewString(),
	}
	require.NoError(t, db.Create(&purchase).Error)

	return student, course, purchase
}

func webhookEventBody(t *testing.T, eventType, intentID string) []byte {
	payload, err := json.Marshal(fiber.Map{
		"type": eventType,
		"data": fiber.Map{
			"object": fiber.Map{"id": intentID},
		},
	})
	require.NoError(t, err)
	return payload
}

func postWebhook(t *testing.T, app *fiber.App, payload []byte, signature string) int {
	req := httptest.NewRequest("POST", "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Webhook-Signature", signature)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	app := setupPaymentApp(t)
	_, _, purchase := seedPendingPurchase(t, "pi_bad_sig")

	payload := webhookEventBody(t, "payment_intent.succeeded", "pi_bad_sig")

	// Missing header
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, payload, ""))

	// Signed with the wrong secret
	wrongSig := utils.SignWebhookPayload(payload, "whsec_other", time.Now())
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, payload, wrongSig))

	// Signed over a different payload
	otherSig := utils.SignWebhookPayload([]byte(`{"type":"x"}`), testWebhookSecret, time.Now())
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, payload, otherSig))

	// Stale timestamp
	staleSig := utils.SignWebhookPayload(payload, testWebhookSecret, time.Now().Add(-10*time.Minute))
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, payload, staleSig))

	// Nothing changed
	var reloaded paymentModels.Purchase
	require.NoError(t, database.Database.Db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, paymentModels.StatusPending, reloaded.Status)

	var count int64
	database.Database.Db.Model(&courseModels.CourseEnrollment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestWebhookSettlesPurchase(t *testing.T) {
	app := setupPaymentApp(t)
	student, course, purchase := seedPendingPurchase(t, "pi_ok")

	payload := webhookEventBody(t, "payment_intent.succeeded", "pi_ok")
	sig := utils.SignWebhookPayload(payload, testWebhookSecret, time.Now())

	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, payload, sig))

	var reloaded paymentModels.Purchase
	require.NoError(t, database.Database.Db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, paymentModels.StatusCompleted, reloaded.Status)
	assert.NotNil(t, reloaded.CompletedAt)

	var enrollment courseModels.CourseEnrollment
	require.NoError(t, database.Database.Db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.True(t, enrollment.IsActive)

	var txns int64
	database.Database.Db.Model(&paymentModels.Transaction{}).Where("purchase_id = ?", purchase.ID).Count(&txns)
	assert.Equal(t, int64(1), txns)
}

func TestWebhookReplayIsIdempotent(t *testing.T) {
	app := setupPaymentApp(t)
	student, course, purchase := seedPendingPurchase(t, "pi_replay")

	payload := webhookEventBody(t, "payment_intent.succeeded", "pi_replay")

	for i := 0; i < 3; i++ {
		sig := utils.SignWebhookPayload(payload, testWebhookSecret, time.Now())
		assert.Equal(t, fiber.StatusOK, postWebhook(t, app, payload, sig))
	}

	var txns int64
	database.Database.Db.Model(&paymentModels.Transaction{}).Where("purchase_id = ?", purchase.ID).Count(&txns)
	assert.Equal(t, int64(1), txns)

	var enrollments int64
	database.Database.Db.Model(&courseModels.CourseEnrollment{}).Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&enrollments)
	assert.Equal(t, int64(1), enrollments)
}

func TestWebhookUnknownIntentAcknowledged(t *testing.T) {
	app := setupPaymentApp(t)

	payload := webhookEventBody(t, "payment_intent.succeeded", "pi_unknown")
	sig := utils.SignWebhookPayload(payload, testWebhookSecret, time.Now())

	// Unknown intents are acknowledged so the processor stops retrying
	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, payload, sig))
}

func TestWebhookPaymentFailed(t *testing.T) {
	app := setupPaymentApp(t)
	_, _, purchase := seedPendingPurchase(t, "pi_fail")

	payload := webhookEventBody(t, "payment_intent.payment_failed", "pi_fail")
	sig := utils.SignWebhookPayload(payload, testWebhookSecret, time.Now())

	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, payload, sig))

	var reloaded paymentModels.Purchase
	require.NoError(t, database.Database.Db.First(&reloaded, purchase.ID).Error)
	assert.Equal(t, paymentModels.StatusFailed, reloaded.Status)

	var enrollments int64
	database.Database.Db.Model(&courseModels.CourseEnrollment{}).Count(&enrollments)
	assert.Equal(t, int64(0), enrollments)
}
