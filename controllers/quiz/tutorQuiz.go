package controllers

import (
	"time"

	"elearn/database"
	"elearn/middleware"
	"elearn/models"
	courseModels "elearn/models/course"
	quizModels "elearn/models/quiz"

	"github.com/gofiber/fiber/v2"
)

// tutorOwnedVideo loads a video whose course belongs to the caller. Admins
// may touch any video.
func tutorOwnedVideo(c *fiber.Ctx, videoID uint) (*courseModels.Video, error) {
	user, _ := c.Locals("user").(models.User)

	var video courseModels.Video
	db := database.Database.Db.Model(&courseModels.Video{}).
		Joins("JOIN units ON units.id = videos.unit_id").
		Joins("JOIN courses ON courses.id = units.course_id").
		Where("videos.id = ? AND videos.is_deleted = ?", videoID, false)
	if !user.IsAdmin() {
		db = db.Where("courses.tutor_id = ?", user.ID)
	}

	if err := db.First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// CreateQuiz attaches a quiz to an owned video. A video carries at most one
// quiz.
func CreateQuiz(c *fiber.Ctx) error {
	videoID := c.Locals("videoID").(int)

	video, err := tutorOwnedVideo(c, uint(videoID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Video not found!", nil)
	}

	var existing quizModels.Quiz
	if err := database.Database.Db.Where("video_id = ? AND is_deleted = ?", video.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This video already has a quiz.", existing)
	}

	reqData, ok := c.Locals("validatedQuiz").(*struct {
		Title          string     `json:"title"`
		Description    string     `json:"description"`
		PassPercentage *int       `json:"pass_percentage"`
		TimeLimit      *int       `json:"time_limit"`
		Deadline       *time.Time `json:"deadline"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz := quizModels.Quiz{
		VideoID:        video.ID,
		Title:          reqData.Title,
		Description:    reqData.Description,
		PassPercentage: 70,
		TimeLimit:      30,
		Deadline:       reqData.Deadline,
		IsActive:       true,
	}
	if reqData.PassPercentage != nil {
		quiz.PassPercentage = *reqData.PassPercentage
	}
	if reqData.TimeLimit != nil {
		quiz.TimeLimit = *reqData.TimeLimit
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully! Now add questions.", quiz)
}

// UpdateQuiz edits an owned quiz, including its active flag and deadline
func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if _, err := tutorOwnedVideo(c, quiz.VideoID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	reqData, ok := c.Locals("validatedQuizUpdate").(*struct {
		Title          *string    `json:"title"`
		Description    *string    `json:"description"`
		PassPercentage *int       `json:"pass_percentage"`
		TimeLimit      *int       `json:"time_limit"`
		Deadline       *time.Time `json:"deadline"`
		ClearDeadline  bool       `json:"clear_deadline"`
		IsActive       *bool      `json:"is_active"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		quiz.Title = *reqData.Title
	}
	if reqData.Description != nil {
		quiz.Description = *reqData.Description
	}
	if reqData.PassPercentage != nil {
		quiz.PassPercentage = *reqData.PassPercentage
	}
	if reqData.TimeLimit != nil {
		quiz.TimeLimit = *reqData.TimeLimit
	}
	if reqData.Deadline != nil {
		quiz.Deadline = reqData.Deadline
	}
	if reqData.ClearDeadline {
		quiz.Deadline = nil
	}
	if reqData.IsActive != nil {
		quiz.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// AddQuestion creates a question with its answer options on an owned quiz
func AddQuestion(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if _, err := tutorOwnedVideo(c, quiz.VideoID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		QuestionText string `json:"question_text"`
		QuestionType string `json:"question_type"`
		Points       int    `json:"points"`
		Order        int    `json:"order"`
		Answers      []struct {
			AnswerText string `json:"answer_text"`
			IsCorrect  bool   `json:"is_correct"`
		} `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	questionType := reqData.QuestionType
	if questionType == "" {
		questionType = quizModels.QuestionMCQ
	}
	points := reqData.Points
	if points <= 0 {
		points = 1
	}

	question := quizModels.Question{
		VideoID:      quiz.VideoID,
		QuestionText: reqData.QuestionText,
		QuestionType: questionType,
		Points:       points,
		Order:        reqData.Order,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
	}

	for i, option := range reqData.Answers {
		answer := quizModels.Answer{
			QuestionID: question.ID,
			AnswerText: option.AnswerText,
			IsCorrect:  option.IsCorrect,
			Order:      i,
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add question!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", question)
}

// DeleteQuestion removes a question from an owned quiz
func DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Locals("questionID").(int)

	var question quizModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if _, err := tutorOwnedVideo(c, question.VideoID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this question!", nil)
	}

	question.IsDeleted = true
	if err := database.Database.Db.Save(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// QuizAnalytics lists every attempt of an owned quiz
func QuizAnalytics(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if _, err := tutorOwnedVideo(c, quiz.VideoID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this quiz!", nil)
	}

	var attempts []quizModels.QuizAttempt
	database.Database.Db.Where("quiz_id = ?", quiz.ID).Order("created_at desc").Find(&attempts)

	passed := 0
	for _, attempt := range attempts {
		if attempt.IsPassed {
			passed++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"quiz":           quiz,
		"attempts":       attempts,
		"total_attempts": len(attempts),
		"total_passed":   passed,
	})
}

// UnitLeaderboard returns the ranked board for one unit
func UnitLeaderboard(c *fiber.Ctx) error {
	unitID := c.Locals("unitID").(int)

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", unitID, false).First(&unit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unit not found!", nil)
	}

	var entries []quizModels.Leaderboard
	database.Database.Db.Where("unit_id = ?", unit.ID).Order("rank asc").Find(&entries)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", fiber.Map{
		"unit":        unit,
		"leaderboard": entries,
	})
}
