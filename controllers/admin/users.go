package adminController

import (
	"strings"

	"elearn/config"
	"elearn/database"
	"elearn/middleware"
	"elearn/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// ListUsers returns users filtered by an optional role query
func ListUsers(c *fiber.Ctx) error {
	db := database.Database.Db.Where("is_deleted = ?", false)

	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}
	if q := c.Query("q"); q != "" {
		like := "%" + q + "%"
		db = db.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var users []models.User
	if err := db.Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

// CreateTutor registers a tutor account. Only admins reach this handler.
func CreateTutor(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTutor").(*struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Bio       string `json:"bio"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var existing models.User
	if err := database.Database.Db.Where("username = ? OR email = ?", reqData.Username, reqData.Email).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username or email already exists!", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tutor!", nil)
	}

	tutor := models.User{
		Username:  strings.TrimSpace(reqData.Username),
		Email:     strings.ToLower(strings.TrimSpace(reqData.Email)),
		Password:  string(hashed),
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Bio:       reqData.Bio,
		Role:      models.RoleTutor,
	}

	if err := database.Database.Db.Create(&tutor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tutor!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Tutor created successfully!", tutor)
}

// UpdateUser edits a user's role or suspension flag
func UpdateUser(c *fiber.Ctx) error {
	targetID := c.Locals("userID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedUserUpdate").(*struct {
		Role        *string `json:"role"`
		IsSuspended *bool   `json:"is_suspended"`
		FirstName   *string `json:"first_name"`
		LastName    *string `json:"last_name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Role != nil {
		switch *reqData.Role {
		case models.RoleAdmin, models.RoleTutor, models.RoleStudent:
			user.Role = *reqData.Role
		default:
			return middleware.ValidationErrorResponse(c, map[string]string{"role": "Invalid role!"})
		}
	}
	if reqData.IsSuspended != nil {
		user.IsSuspended = *reqData.IsSuspended
	}
	if reqData.FirstName != nil {
		user.FirstName = *reqData.FirstName
	}
	if reqData.LastName != nil {
		user.LastName = *reqData.LastName
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	// Suspension kills every live session immediately
	if user.IsSuspended {
		database.Database.Db.Model(&models.UserSession{}).
			Where("user_id = ? AND is_active = ?", user.ID, true).
			Update("is_active", false)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", user)
}

// DeleteUser soft-deletes a user. Admins cannot delete themselves.
func DeleteUser(c *fiber.Ctx) error {
	callerID, _ := c.Locals("userId").(uint)
	targetID := c.Locals("userID").(int)

	if uint(targetID) == callerID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsDeleted = true
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	database.Database.Db.Model(&models.UserSession{}).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Update("is_active", false)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}
