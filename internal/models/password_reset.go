package models

import (
	"time"
)

// PasswordResetToken represents a password reset token row in the database.
// Only the SHA-256 hash of the secret is stored; the plain token is shown
// to the user exactly once, at issue time.
type PasswordResetToken struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"-"` // The hashed token, never sent to clients
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for the PasswordResetToken model.
func (t *PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpired reports whether the token's validity window has passed.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the structure for resetting a password with a token.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}
