package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	paymentModels "elearn/models/payment"
	courseValidator "elearn/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCourseApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	app := fiber.New()
	app.Post("/video/:id/progress", middleware.Protected, courseValidator.TrackProgress(), TrackVideoProgress)
	app.Get("/material/:id/view", middleware.Protected, courseValidator.ViewMaterial(), ViewMaterial)
	app.Post("/course/:id/enroll", middleware.Protected, courseValidator.CourseID(), EnrollInCourse)
	app.Get("/course/:id/learn", middleware.Protected, courseValidator.CourseID(), LearnCourse)
	app.Get("/course/:id/progress", middleware.Protected, courseValidator.CourseID(), GetMyProgress)
	return app
}

// loginAs creates a user with an active session and returns the bearer token
func loginAs(t *testing.T, username, role string) (models.User, string) {
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	session := models.UserSession{
		UserID:       user.ID,
		SessionKey:   uuid.NewString(),
		LastActivity: time.Now(),
		IsActive:     true,
	}
	require.NoError(t, database.Database.Db.Create(&session).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role, user.Email, session.SessionKey)
	require.NoError(t, err)
	return user, token
}

// seedCourse creates a course with one unit, two videos and two materials
func seedCourse(t *testing.T, tutorID uint, isFree bool) (courseModels.Course, []courseModels.Video, []courseModels.Material) {
	price := 50.0
	if isFree {
		price = 0
	}
	course := courseModels.Course{
		Title:       "Test Course",
		Slug:        "test-course-" + uuid.NewString()[:8],
		Description: "desc",
		TutorID:     tutorID,
		Price:       price,
		IsFree:      isFree,
		IsApproved:  true,
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	unit := courseModels.Unit{CourseID: course.ID, Title: "Unit 1", Order: 1}
	require.NoError(t, database.Database.Db.Create(&unit).Error)

	videos := make([]courseModels.Video, 2)
	for i := range videos {
		videos[i] = courseModels.Video{
			UnitID:   unit.ID,
			Title:    "Video",
			VideoURL: "https://cdn.example.com/v.mp4",
			Duration: 300,
			Order:    i + 1,
		}
		require.NoError(t, database.Database.Db.Create(&videos[i]).Error)
	}

	materials := make([]courseModels.Material, 2)
	for i := range materials {
		materials[i] = courseModels.Material{
			UnitID:       unit.ID,
			Title:        "Material",
			FileURL:      "https://cdn.example.com/m.pdf",
			MaterialType: courseModels.MaterialPDF,
		}
		require.NoError(t, database.Database.Db.Create(&materials[i]).Error)
	}

	return course, videos, materials
}

func authedJSON(t *testing.T, method, target, token string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func enrollmentOf(t *testing.T, studentID, courseID uint) courseModels.CourseEnrollment {
	var enrollment courseModels.CourseEnrollment
	require.NoError(t, database.Database.Db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error)
	return enrollment
}

func itoa(id uint) string {
	return strconv.Itoa(int(id))
}

func TestVideoCompletionThreshold(t *testing.T) {
	app := setupCourseApp(t)

	tutor, _ := loginAs(t, "tutor1", models.RoleTutor)
	student, token := loginAs(t, "student1", models.RoleStudent)
	course, videos, _ := seedCourse(t, tutor.ID, true)

	require.NoError(t, database.Database.Db.Create(&courseModels.CourseEnrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		IsActive:  true,
	}).Error)

	// Below the threshold the video stays incomplete
	resp, err := app.Test(authedJSON(t, "POST", "/video/"+itoa(videos[0].ID)+"/progress", token, fiber.Map{
		"watch_time":    150,
		"progress":      50.0,
		"last_position": 150,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var watch courseModels.VideoWatch
	require.NoError(t, database.Database.Db.Where("student_id = ? AND video_id = ?", student.ID, videos[0].ID).First(&watch).Error)
	assert.False(t, watch.IsCompleted)
	assert.Nil(t, watch.CompletedAt)
	assert.Equal(t, 0.0, enrollmentOf(t, student.ID, course.ID).Progress)

	// At 90 percent it completes and the enrollment aggregate moves
	resp, err = app.Test(authedJSON(t, "POST", "/video/"+itoa(videos[0].ID)+"/progress", token, fiber.Map{
		"watch_time":    280,
		"progress":      90.0,
		"last_position": 280,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.Where("student_id = ? AND video_id = ?", student.ID, videos[0].ID).First(&watch).Error)
	assert.True(t, watch.IsCompleted)
	require.NotNil(t, watch.CompletedAt)

	// 1 of 4 items done
	assert.InDelta(t, 25.0, enrollmentOf(t, student.ID, course.ID).Progress, 0.01)

	// Only one watch row per (student, video)
	var count int64
	database.Database.Db.Model(&courseModels.VideoWatch{}).Where("student_id = ? AND video_id = ?", student.ID, videos[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMaterialViewIdempotent(t *testing.T) {
	app := setupCourseApp(t)

	tutor, _ := loginAs(t, "tutor2", models.RoleTutor)
	student, token := loginAs(t, "student2", models.RoleStudent)
	course, _, materials := seedCourse(t, tutor.ID, true)

	require.NoError(t, database.Database.Db.Create(&courseModels.CourseEnrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		IsActive:  true,
	}).Error)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(authedJSON(t, "GET", "/material/"+itoa(materials[0].ID)+"/view", token, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var count int64
	database.Database.Db.Model(&courseModels.MaterialView{}).Where("student_id = ? AND material_id = ?", student.ID, materials[0].ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// Counted once: 1 of 4 items
	assert.InDelta(t, 25.0, enrollmentOf(t, student.ID, course.ID).Progress, 0.01)
}

func TestProgressZeroContentCourse(t *testing.T) {
	setupCourseApp(t)

	tutor, _ := loginAs(t, "tutor3", models.RoleTutor)
	student, _ := loginAs(t, "student3", models.RoleStudent)

	course := courseModels.Course{
		Title:       "Empty Course",
		Slug:        "empty-course",
		TutorID:     tutor.ID,
		IsFree:      true,
		IsApproved:  true,
		IsPublished: true,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	require.NoError(t, database.Database.Db.Create(&courseModels.CourseEnrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		IsActive:  true,
		Progress:  42.0,
	}).Error)

	// No content: the stored progress is left untouched, no division happens
	recomputeEnrollmentProgress(student.ID, course.ID)
	assert.InDelta(t, 42.0, enrollmentOf(t, student.ID, course.ID).Progress, 0.01)
}

func TestPaidCourseEnrollmentRequiresPurchase(t *testing.T) {
	app := setupCourseApp(t)

	tutor, _ := loginAs(t, "tutor4", models.RoleTutor)
	student, token := loginAs(t, "student4", models.RoleStudent)
	course, _, _ := seedCourse(t, tutor.ID, false)

	resp, err := app.Test(authedJSON(t, "POST", "/course/"+itoa(course.ID)+"/enroll", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// With a completed purchase the enrollment goes through
	require.NoError(t, database.Database.Db.Create(&paymentModels.Purchase{
		StudentID:       student.ID,
		CourseID:        course.ID,
		Amount:          course.Price,
		Status:          paymentModels.StatusCompleted,
		PaymentIntentID: "pi_" + uuid.NewString()[:8],
		TransactionID:   uuid.NewString(),
	}).Error)

	resp, err = app.Test(authedJSON(t, "POST", "/course/"+itoa(course.ID)+"/enroll", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Enrolling again keeps the single existing row
	resp, err = app.Test(authedJSON(t, "POST", "/course/"+itoa(course.ID)+"/enroll", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&courseModels.CourseEnrollment{}).Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFreeCourseAutoEnrollOnLearn(t *testing.T) {
	app := setupCourseApp(t)

	tutor, _ := loginAs(t, "tutor5", models.RoleTutor)
	student, token := loginAs(t, "student5", models.RoleStudent)
	course, _, _ := seedCourse(t, tutor.ID, true)

	resp, err := app.Test(authedJSON(t, "GET", "/course/"+itoa(course.ID)+"/learn", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	enrollment := enrollmentOf(t, student.ID, course.ID)
	assert.True(t, enrollment.IsActive)
}
