package models

import (
	"time"
)

// User represents a registered player of the Tunegie application.
// It contains authentication information and core user attributes.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username" validate:"required,alphanum,min=3,max=30"`
	Email        string     `json:"email" db:"email" validate:"required,email,max=255"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// NewUser creates a new User instance with the given username and email.
// The password hash is populated later during the registration process.
func NewUser(username, email string) *User {
	return &User{
		Username:  username,
		Email:     email,
		Role:      "user",
		IsActive:  true,
		CreatedAt: time.Now(),
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Sanitize removes sensitive information from the User object when sending to clients.
// This ensures sensitive fields like password hash are never exposed.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	return &sanitized
}

// UserCredentials represents the login credentials provided by a user.
// Either a username or an email identifies the account.
type UserCredentials struct {
	Username string `json:"username" validate:"required_without=Email,omitempty,min=3,max=30"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

// UserRegistration represents the data required for user registration.
type UserRegistration struct {
	Username        string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// UserUpdate represents the data that can be updated on a user's profile.
type UserUpdate struct {
	Username string `json:"username" validate:"omitempty,alphanum,min=3,max=30"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
}

// RoleUpdate represents an administrative role change request.
type RoleUpdate struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// ActiveUpdate represents an administrative activation toggle request.
type ActiveUpdate struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
