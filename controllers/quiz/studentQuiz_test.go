package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	quizModels "elearn/models/quiz"
	quizRoutes "elearn/routers/quizRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupQuizApp(t *testing.T) *fiber.App {
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
	quizRoutes.SetupQuizRoutes(app)
	return app
}

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

type quizFixture struct {
	course    courseModels.Course
	unit      courseModels.Unit
	video     courseModels.Video
	quiz      quizModels.Quiz
	questions []quizModels.Question
	correct   map[uint]uint // question id -> correct answer id
	wrong     map[uint]uint // question id -> a wrong answer id
}

// seedQuiz builds a free course with one video quiz of three questions worth
// 10, 20 and 30 points.
func seedQuiz(t *testing.T, tutorID uint) quizFixture {
	db := database.Database.Db

	course := courseModels.Course{
		Title:       "Quiz Course",
		Slug:        "quiz-course-" + uuid.NewString()[:8],
		TutorID:     tutorID,
		IsFree:      true,
		IsApproved:  true,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&course).Error)

	unit := courseModels.Unit{CourseID: course.ID, Title: "Unit 1", Order: 1}
	require.NoError(t, db.Create(&unit).Error)

	video := courseModels.Video{UnitID: unit.ID, Title: "Lesson", VideoURL: "https://cdn.example.com/v.mp4", Duration: 300, Order: 1}
	require.NoError(t, db.Create(&video).Error)

	quiz := quizModels.Quiz{
		VideoID:        video.ID,
		Title:          "Lesson Quiz",
		PassPercentage: 70,
		TimeLimit:      30,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&quiz).Error)

	fixture := quizFixture{
		course:  course,
		unit:    unit,
		video:   video,
		quiz:    quiz,
		correct: make(map[uint]uint),
		wrong:   make(map[uint]uint),
	}

	for i, points := range []int{10, 20, 30} {
		question := quizModels.Question{
			VideoID:      video.ID,
			QuestionText: "Question",
			QuestionType: quizModels.QuestionMCQ,
			Points:       points,
			Order:        i + 1,
		}
		require.NoError(t, db.Create(&question).Error)
		fixture.questions = append(fixture.questions, question)

		right := quizModels.Answer{QuestionID: question.ID, AnswerText: "right", IsCorrect: true, Order: 0}
		require.NoError(t, db.Create(&right).Error)
		wrong := quizModels.Answer{QuestionID: question.ID, AnswerText: "wrong", Order: 1}
		require.NoError(t, db.Create(&wrong).Error)

		fixture.correct[question.ID] = right.ID
		fixture.wrong[question.ID] = wrong.ID
	}

	return fixture
}

func enroll(t *testing.T, studentID, courseID uint) {
	require.NoError(t, database.Database.Db.Create(&courseModels.CourseEnrollment{
		StudentID: studentID,
		CourseID:  courseID,
		IsActive:  true,
	}).Error)
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

func submitQuiz(t *testing.T, app *fiber.App, token string, quizID uint, answers []fiber.Map) (*http.Response, map[string]interface{}) {
	resp, err := app.Test(authedJSON(t, "POST", "/quiz/"+strconv.Itoa(int(quizID))+"/submit", token, fiber.Map{
		"answers":    answers,
		"time_taken": 120,
	}), -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestSubmitQuizScoring(t *testing.T) {
	app := setupQuizApp(t)

	tutor, _ := loginAs(t, "qtutor1", models.RoleTutor)
	student, token := loginAs(t, "qstudent1", models.RoleStudent)
	fx := seedQuiz(t, tutor.ID)
	enroll(t, student.ID, fx.course.ID)

	// 30 of 60 points is below the 70 percent pass mark
	q := fx.questions
	resp, body := submitQuiz(t, app, token, fx.quiz.ID, []fiber.Map{
		{"question_id": q[0].ID, "answer_id": fx.correct[q[0].ID]},
		{"question_id": q[1].ID, "answer_id": fx.correct[q[1].ID]},
		{"question_id": q[2].ID, "answer_id": fx.wrong[q[2].ID]},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 30.0, data["score"].(float64), 0.01)
	assert.InDelta(t, 60.0, data["total_points"].(float64), 0.01)
	assert.InDelta(t, 50.0, data["percentage"].(float64), 0.01)
	assert.False(t, data["is_passed"].(bool))

	// A perfect sheet passes
	resp, body = submitQuiz(t, app, token, fx.quiz.ID, []fiber.Map{
		{"question_id": q[0].ID, "answer_id": fx.correct[q[0].ID]},
		{"question_id": q[1].ID, "answer_id": fx.correct[q[1].ID]},
		{"question_id": q[2].ID, "answer_id": fx.correct[q[2].ID]},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data = body["data"].(map[string]interface{})
	assert.InDelta(t, 100.0, data["percentage"].(float64), 0.01)
	assert.True(t, data["is_passed"].(bool))
}

func TestSubmitQuizOmittedQuestionsExcluded(t *testing.T) {
	app := setupQuizApp(t)

	tutor, _ := loginAs(t, "qtutor2", models.RoleTutor)
	student, token := loginAs(t, "qstudent2", models.RoleStudent)
	fx := seedQuiz(t, tutor.ID)
	enroll(t, student.ID, fx.course.ID)

	// Only the 30-point question is submitted, so only it counts
	q := fx.questions[2]
	resp, body := submitQuiz(t, app, token, fx.quiz.ID, []fiber.Map{
		{"question_id": q.ID, "answer_id": fx.correct[q.ID]},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.InDelta(t, 30.0, data["score"].(float64), 0.01)
	assert.InDelta(t, 30.0, data["total_points"].(float64), 0.01)
	assert.InDelta(t, 100.0, data["percentage"].(float64), 0.01)
	assert.True(t, data["is_passed"].(bool))
}

func TestSubmitQuizPastDeadline(t *testing.T) {
	app := setupQuizApp(t)

	tutor, _ := loginAs(t, "qtutor3", models.RoleTutor)
	student, token := loginAs(t, "qstudent3", models.RoleStudent)
	fx := seedQuiz(t, tutor.ID)
	enroll(t, student.ID, fx.course.ID)

	yesterday := time.Now().Add(-24 * time.Hour)
	require.NoError(t, database.Database.Db.Model(&fx.quiz).Update("deadline", yesterday).Error)

	q := fx.questions[0]
	resp, body := submitQuiz(t, app, token, fx.quiz.ID, []fiber.Map{
		{"question_id": q.ID, "answer_id": fx.correct[q.ID]},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "The deadline for this quiz has passed.", body["message"])

	var count int64
	database.Database.Db.Model(&quizModels.QuizAttempt{}).Where("quiz_id = ?", fx.quiz.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmitQuizUnenrolled(t *testing.T) {
	app := setupQuizApp(t)

	tutor, _ := loginAs(t, "qtutor4", models.RoleTutor)
	_, token := loginAs(t, "qstudent4", models.RoleStudent)
	fx := seedQuiz(t, tutor.ID)

	q := fx.questions[0]
	resp, _ := submitQuiz(t, app, token, fx.quiz.ID, []fiber.Map{
		{"question_id": q.ID, "answer_id": fx.correct[q.ID]},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The rejection happens before any attempt row is written
	var count int64
	database.Database.Db.Model(&quizModels.QuizAttempt{}).Where("quiz_id = ?", fx.quiz.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestTakeQuizHidesCorrectFlags(t *testing.T) {
	app := setupQuizApp(t)

	tutor, _ := loginAs(t, "qtutor5", models.RoleTutor)
	student, token := loginAs(t, "qstudent5", models.RoleStudent)
	fx := seedQuiz(t, tutor.ID)
	enroll(t, student.ID, fx.course.ID)

	resp, err := app.Test(authedJSON(t, "GET", "/quiz/"+strconv.Itoa(int(fx.quiz.ID))+"/take", token, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "is_correct"))
}

func TestLeaderboardUpdatedAfterSubmit(t *testing.T) {
	app := setupQuizApp(t)

	tutor, _ := loginAs(t, "qtutor6", models.RoleTutor)
	student, token := loginAs(t, "qstudent6", models.RoleStudent)
	fx := seedQuiz(t, tutor.ID)
	enroll(t, student.ID, fx.course.ID)

	q := fx.questions
	resp, _ := submitQuiz(t, app, token, fx.quiz.ID, []fiber.Map{
		{"question_id": q[0].ID, "answer_id": fx.correct[q[0].ID]},
		{"question_id": q[1].ID, "answer_id": fx.correct[q[1].ID]},
		{"question_id": q[2].ID, "answer_id": fx.correct[q[2].ID]},
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entry quizModels.Leaderboard
	require.NoError(t, database.Database.Db.Where("unit_id = ? AND student_id = ?", fx.unit.ID, student.ID).First(&entry).Error)
	assert.Equal(t, 1, entry.Rank)
	assert.Equal(t, 1, entry.TotalQuizzes)
	assert.InDelta(t, 60.0, entry.TotalScore, 0.01)
}
