package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/repository"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// dummyPasswordHash is a well-formed bcrypt hash compared against when
// the account does not exist, so a login attempt costs the same time
// whether or not the identifier is registered.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService handles registration, login, token verification, and
// the password reset flow.
type AuthService struct {
	userRepo    repository.UserRepository
	resetTokens *ResetTokenService
	emails      EmailSender
	jwtService  *auth.JWTService
	hasher      *auth.PasswordHasher
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	resetTokens *ResetTokenService,
	emails EmailSender,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		resetTokens: resetTokens,
		emails:      emails,
		jwtService:  jwtService,
		hasher:      hasher,
	}
}

// RegisterUser creates a new user account and signs the account in,
// returning the user together with an access token.
func (s *AuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, string, error) {
	// Validate password match
	if reg.Password != reg.ConfirmPassword {
		return nil, "", utils.NewValidationError("confirm_password", "Passwords do not match")
	}

	if err := utils.ValidateUsername(reg.Username); err != nil {
		return nil, "", err
	}

	if err := utils.ValidatePassword(reg.Password); err != nil {
		return nil, "", err
	}

	// Check if username already exists. The generic duplicate error never
	// says which field collided.
	existsUsername, err := s.userRepo.ExistsByUsername(ctx, reg.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username existence: %w", err)
	}
	if existsUsername {
		return nil, "", utils.NewDuplicateError(fmt.Sprintf("username %q already registered", reg.Username))
	}

	// Check if email already exists
	existsEmail, err := s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if existsEmail {
		return nil, "", utils.NewDuplicateError(fmt.Sprintf("email %s already registered", utils.MaskEmail(reg.Email)))
	}

	// Hash the password
	passwordHash, err := s.hasher.HashPassword(reg.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// Create the user
	user := models.NewUser(reg.Username, reg.Email)
	user.PasswordHash = passwordHash

	// Save the user to the database. The unique constraints catch the
	// race where two registrations with the same identifier pass the
	// existence checks concurrently.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	// A fresh account is signed in right away
	accessToken, _, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	utils.LogAuth("register_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), accessToken, nil
}

// AuthenticateUser verifies user credentials and returns the user and a
// signed access token. Unknown accounts, wrong passwords, and
// deactivated accounts all fail with the same invalid-credentials error.
func (s *AuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, error) {
	// Either field may carry either identifier; the lookup matches the
	// value against both columns.
	identifier := creds.Username
	if identifier == "" {
		identifier = creds.Email
	}
	if identifier == "" {
		return nil, "", utils.NewValidationError("credentials", "Username or email is required")
	}

	user, err := s.userRepo.GetByEmailOrUsername(ctx, identifier)
	if err != nil {
		if utils.IsNotFoundError(err) {
			// Burn a hash comparison anyway to keep failure timing flat
			s.hasher.CheckPassword(creds.Password, dummyPasswordHash)
			utils.LogAuth("login_failed", "0", creds.Username, false, "user not found")
			return nil, "", utils.NewInvalidCredentialsError()
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	// Verify the password
	if !s.hasher.CheckPassword(creds.Password, user.PasswordHash) {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "invalid password")
		return nil, "", utils.NewInvalidCredentialsError()
	}

	if !user.IsActive {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "account deactivated")
		return nil, "", utils.NewInvalidCredentialsError()
	}

	// Generate the access token
	accessToken, _, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate access token: %w", err)
	}

	// Record the login; failure here must not fail the login itself
	if err := s.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Warn().
			Err(err).
			Int64("user_id", user.ID).
			Msg("Failed to record last login")
	}

	utils.LogAuth("login_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), accessToken, nil
}

// VerifyToken validates an access token and returns the live account
// behind it. Tokens for deleted or deactivated accounts fail exactly
// like bad tokens.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewRevokedTokenError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, utils.NewRevokedTokenError()
	}

	return user.Sanitize(), nil
}

// Logout ends a session. Access tokens are stateless and cannot be
// revoked server-side; the client discards its copy. The call exists so
// the API shape does not change if server-side revocation is added.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	utils.LogAuth("logout", fmt.Sprintf("%d", userID), "", true, "")
	return nil
}

// RequestPasswordReset starts the reset flow for the given email.
// It always succeeds from the caller's perspective: whether the email
// is registered, unregistered, or belongs to a deactivated account, the
// observable behavior is identical.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("reset_requested", "0", "", false, "email not registered")
			return nil
		}
		return fmt.Errorf("failed to look up user for reset: %w", err)
	}

	if !user.IsActive {
		utils.LogAuth("reset_requested", fmt.Sprintf("%d", user.ID), user.Username, false, "account deactivated")
		return nil
	}

	token, err := s.resetTokens.IssueFor(ctx, user.ID)
	if err != nil {
		return err
	}

	// Email delivery failures are logged but never surfaced, so the
	// response cannot leak whether an email was actually sent.
	if err := s.emails.SendPasswordResetEmail(user.Email, user.Username, token); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("Failed to deliver password reset email")
	}

	utils.LogAuth("reset_requested", fmt.Sprintf("%d", user.ID), user.Username, true, "")
	return nil
}

// ResetPassword redeems a reset token and sets a new password.
// The token is spent even if only this one call uses it; a second
// attempt with the same token fails.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	userID, err := s.resetTokens.ValidateAndConsume(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ChangePassword(ctx, userID, passwordHash); err != nil {
		return err
	}

	utils.LogAuth("password_reset", fmt.Sprintf("%d", userID), "", true, "")
	return nil
}

// CleanupExpiredResetTokens removes expired reset tokens from the database
func (s *AuthService) CleanupExpiredResetTokens(ctx context.Context) (int64, error) {
	return s.resetTokens.CleanupExpired(ctx)
}
