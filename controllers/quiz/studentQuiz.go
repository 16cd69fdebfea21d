package controllers

import (
	"log"
	"time"

	"elearn/database"
	"elearn/middleware"
	courseModels "elearn/models/course"
	quizModels "elearn/models/quiz"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmittedAnswer is one (question, selected answer) pair of a submission
type SubmittedAnswer struct {
	QuestionID uint  `json:"question_id"`
	AnswerID   *uint `json:"answer_id"`
}

// loadQuizContext resolves a quiz with the unit and course it hangs off
func loadQuizContext(quizID int) (*quizModels.Quiz, *courseModels.Unit, error) {
	var quiz quizModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return nil, nil, err
	}

	var video courseModels.Video
	if err := database.Database.Db.Where("id = ?", quiz.VideoID).First(&video).Error; err != nil {
		return nil, nil, err
	}

	var unit courseModels.Unit
	if err := database.Database.Db.Where("id = ?", video.UnitID).First(&unit).Error; err != nil {
		return nil, nil, err
	}

	return &quiz, &unit, nil
}

// TakeQuiz returns the quiz with its questions for an enrolled student.
// Correct-answer flags are stripped from the payload.
func TakeQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	quiz, unit, err := loadQuizContext(quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var enrollment courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, unit.CourseID, true).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to take the quiz.", nil)
	}

	now := time.Now()
	if !quiz.IsAvailable(now) {
		if quiz.IsDeadlinePassed(now) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The deadline for this quiz has passed.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is not currently active.", nil)
	}

	var questions []quizModels.Question
	database.Database.Db.Where("video_id = ? AND is_deleted = ?", quiz.VideoID, false).Order("order_index asc").Find(&questions)

	type AnswerOption struct {
		ID         uint   `json:"id"`
		AnswerText string `json:"answer_text"`
		Order      int    `json:"order"`
	}
	type QuizQuestion struct {
		ID           uint           `json:"id"`
		QuestionText string         `json:"question_text"`
		QuestionType string         `json:"question_type"`
		Points       int            `json:"points"`
		Order        int            `json:"order"`
		Answers      []AnswerOption `json:"answers"`
	}

	questionList := make([]QuizQuestion, len(questions))
	for i, q := range questions {
		var answers []quizModels.Answer
		database.Database.Db.Where("question_id = ?", q.ID).Order("order_index asc").Find(&answers)

		options := make([]AnswerOption, len(answers))
		for j, a := range answers {
			options[j] = AnswerOption{ID: a.ID, AnswerText: a.AnswerText, Order: a.Order}
		}
		questionList[i] = QuizQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.Points,
			Order:        q.Order,
			Answers:      options,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": questionList,
	})
}

// SubmitQuiz scores a submission and records the attempt. A question carries
// its points into total_points only when the submission includes it.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	quiz, unit, err := loadQuizContext(quizID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	// No attempt row exists until the enrollment check passes
	var enrollment courseModels.CourseEnrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_active = ?", userID, unit.CourseID, true).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to take the quiz.", nil)
	}

	now := time.Now()
	if !quiz.IsAvailable(now) {
		if quiz.IsDeadlinePassed(now) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The deadline for this quiz has passed.", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This quiz is not currently active.", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answers   []SubmittedAnswer `json:"answers"`
		TimeTaken int               `json:"time_taken"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	attempt := quizModels.QuizAttempt{
		StudentID: userID,
		QuizID:    quiz.ID,
		VideoID:   quiz.VideoID,
		TimeTaken: reqData.TimeTaken,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	totalScore := 0.0
	totalPoints := 0
	seen := make(map[uint]bool)

	for _, submitted := range reqData.Answers {
		if seen[submitted.QuestionID] {
			continue
		}
		seen[submitted.QuestionID] = true

		// Only questions of this quiz's video are gradeable
		var question quizModels.Question
		if err := tx.Where("id = ? AND video_id = ? AND is_deleted = ?", submitted.QuestionID, quiz.VideoID, false).First(&question).Error; err != nil {
			continue
		}

		totalPoints += question.Points

		if submitted.AnswerID == nil {
			continue
		}

		var answer quizModels.Answer
		if err := tx.Where("id = ? AND question_id = ?", *submitted.AnswerID, question.ID).First(&answer).Error; err != nil {
			continue
		}

		pointsEarned := 0.0
		if answer.IsCorrect {
			pointsEarned = float64(question.Points)
			totalScore += pointsEarned
		}

		studentAnswer := quizModels.StudentAnswer{
			AttemptID:        attempt.ID,
			QuestionID:       question.ID,
			SelectedAnswerID: submitted.AnswerID,
			IsCorrect:        answer.IsCorrect,
			PointsEarned:     pointsEarned,
		}
		if err := tx.Create(&studentAnswer).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
		}
	}

	percentage := 0.0
	if totalPoints > 0 {
		percentage = totalScore / float64(totalPoints) * 100
	}

	attempt.Score = totalScore
	attempt.TotalPoints = totalPoints
	attempt.Percentage = percentage
	attempt.IsPassed = percentage >= float64(quiz.PassPercentage)
	attempt.CompletedAt = &now

	if err := tx.Save(&attempt).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}
	tx.Commit()

	updateLeaderboard(userID, unit.ID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"score":        totalScore,
		"total_points": totalPoints,
		"percentage":   percentage,
		"is_passed":    attempt.IsPassed,
		"attempt_id":   attempt.ID,
	})
}

// updateLeaderboard refreshes the caller's aggregate row for the unit and
// re-ranks the unit's board.
func updateLeaderboard(studentID uint, unitID uint) {
	db := database.Database.Db

	type aggregate struct {
		TotalScore   float64
		TotalQuizzes int
		AverageScore float64
	}

	var agg aggregate
	err := db.Model(&quizModels.QuizAttempt{}).
		Select("COALESCE(SUM(quiz_attempts.score), 0) as total_score, COUNT(DISTINCT quiz_attempts.quiz_id) as total_quizzes, COALESCE(AVG(quiz_attempts.percentage), 0) as average_score").
		Joins("JOIN videos ON videos.id = quiz_attempts.video_id").
		Where("quiz_attempts.student_id = ? AND videos.unit_id = ? AND quiz_attempts.completed_at IS NOT NULL", studentID, unitID).
		Scan(&agg).Error
	if err != nil {
		log.Printf("Error aggregating leaderboard for unit %d: %v", unitID, err)
		return
	}

	var entry quizModels.Leaderboard
	if err := db.Where("unit_id = ? AND student_id = ?", unitID, studentID).First(&entry).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return
		}
		entry = quizModels.Leaderboard{UnitID: unitID, StudentID: studentID}
	}

	entry.TotalScore = agg.TotalScore
	entry.TotalQuizzes = agg.TotalQuizzes
	entry.AverageScore = agg.AverageScore

	if err := db.Save(&entry).Error; err != nil {
		log.Printf("Error saving leaderboard entry: %v", err)
		return
	}

	// Re-rank the whole unit
	var entries []quizModels.Leaderboard
	db.Where("unit_id = ?", unitID).Order("average_score desc, total_score desc").Find(&entries)
	for i := range entries {
		if entries[i].Rank != i+1 {
			db.Model(&entries[i]).Update("rank", i+1)
		}
	}
}

// GetQuizAttempt returns one of the caller's scored attempts with the graded
// answers.
func GetQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt quizModels.QuizAttempt
	if err := database.Database.Db.Where("id = ? AND student_id = ?", attemptID, userID).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	var answers []quizModels.StudentAnswer
	database.Database.Db.Where("attempt_id = ?", attempt.ID).Find(&answers)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", fiber.Map{
		"attempt": attempt,
		"answers": answers,
	})
}
