package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/repository"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// GenerateResetToken generates a secure random token and its SHA-256 hash.
// It returns the plain token (to be sent to the user) and the hash
// (to be stored). A stolen database copy of the hash cannot be turned
// back into a usable token.
func GenerateResetToken() (string, string, error) {
	tokenBytes, err := auth.GenerateRandomBytes(constants.ResetTokenByteLength)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token bytes: %w", err)
	}
	token := hex.EncodeToString(tokenBytes) // Plain token for the user

	hash := sha256.Sum256([]byte(token)) // Hash of the token for storage
	tokenHash := hex.EncodeToString(hash[:])
	return token, tokenHash, nil
}

// HashResetToken computes the storage hash of a plain reset token.
func HashResetToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ResetTokenService manages the lifecycle of password reset tokens:
// issue, single-use consumption, and expiry cleanup.
type ResetTokenService struct {
	resetRepo repository.PasswordResetRepository
	expiry    time.Duration
}

// NewResetTokenService creates a new ResetTokenService.
func NewResetTokenService(resetRepo repository.PasswordResetRepository, expiry time.Duration) *ResetTokenService {
	if expiry <= 0 {
		expiry = constants.DefaultResetTokenExpiry
	}
	return &ResetTokenService{
		resetRepo: resetRepo,
		expiry:    expiry,
	}
}

// IssueFor creates a fresh reset token for the user and returns the
// plain token. Any outstanding tokens for the same user are invalidated
// first, so only the most recently issued token can ever be redeemed.
func (s *ResetTokenService) IssueFor(ctx context.Context, userID int64) (string, error) {
	if err := s.resetRepo.InvalidateByUserID(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to invalidate previous reset tokens: %w", err)
	}

	token, tokenHash, err := GenerateResetToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.expiry)
	if err := s.resetRepo.Create(ctx, userID, tokenHash, expiresAt); err != nil {
		return "", err
	}

	return token, nil
}

// ValidateAndConsume redeems a plain reset token and returns the user
// it belongs to. The token is spent atomically: a second call with the
// same token fails, as does an expired or unknown token, all with the
// same error.
func (s *ResetTokenService) ValidateAndConsume(ctx context.Context, token string) (int64, error) {
	userID, err := s.resetRepo.Consume(ctx, HashResetToken(token), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return 0, utils.NewResetTokenInvalidError()
		}
		return 0, err
	}
	return userID, nil
}

// CleanupExpired removes tokens past their validity window.
func (s *ResetTokenService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.resetRepo.DeleteExpired(ctx, time.Now())
}
