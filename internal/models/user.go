package models

import (
	"regexp"
	"time"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidUsername reports whether s is made of letters, digits and @.+-_ only,
// which keeps usernames usable as a single path segment.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

type User struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:150;unique;not null" json:"username"`
	FirstName string `gorm:"size:150" json:"first_name"`
	LastName  string `gorm:"size:150" json:"last_name"`
	Email     string `gorm:"size:254;unique;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username  string `json:"username" form:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" form:"last_name" binding:"max=150"`
	Email     string `json:"email" form:"email" binding:"required,email,max=254"`
	Password  string `json:"password" form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ProfileRequest lists the fields a user may change on their own profile.
type ProfileRequest struct {
	Username  string `json:"username" form:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" form:"last_name" binding:"max=150"`
	Email     string `json:"email" form:"email" binding:"required,email,max=254"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
