package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user account can carry
const (
	RoleAdmin   = "admin"
	RoleTutor   = "tutor"
	RoleStudent = "student"
)

type User struct {
	gorm.Model
	Username       string     `json:"username" gorm:"unique;not null"`
	Email          string     `json:"email" gorm:"unique;not null"`
	Password       string     `json:"-" gorm:"not null"`
	FirstName      string     `json:"first_name" gorm:"default:''"`
	LastName       string     `json:"last_name" gorm:"default:''"`
	Role           string     `json:"role" gorm:"default:'student'"` // admin, tutor, student
	Phone          string     `json:"phone" gorm:"default:''"`
	Bio            string     `json:"bio" gorm:"type:text"`
	ProfilePicture string     `json:"profile_picture" gorm:"default:''"`
	EmailVerified  bool       `json:"email_verified" gorm:"default:false"`
	PhoneVerified  bool       `json:"phone_verified" gorm:"default:false"`
	IsSuspended    bool       `json:"is_suspended" gorm:"default:false"`
	LastLogin      *time.Time `json:"last_login"`
	IsDeleted      bool       `gorm:"default:false"`
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTutor() bool   { return u.Role == RoleTutor }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// UserSession is the registry of issued tokens. Only one session per user is
// active at a time; logging in elsewhere revokes the others.
type UserSession struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	SessionKey   string    `json:"session_key" gorm:"uniqueIndex;not null"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
}

// ActivityLog records significant account actions (login, logout)
type ActivityLog struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Action      string `json:"action" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	IPAddress   string `json:"ip_address"`
}
