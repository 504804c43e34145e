package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/database"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

var (
	// ErrTokenNotFound is returned when a reset token is unknown, expired,
	// or already consumed. The three cases are indistinguishable on purpose.
	ErrTokenNotFound = errors.New("token not found or expired")
)

// PasswordResetRepository defines database operations for password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	Consume(ctx context.Context, tokenHash string, now time.Time) (int64, error)
	InvalidateByUserID(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PostgresPasswordResetRepository is a PostgreSQL implementation of PasswordResetRepository.
type PostgresPasswordResetRepository struct {
	db *database.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *database.Pool) PasswordResetRepository {
	return &PostgresPasswordResetRepository{db: db}
}

// Create stores a new password reset token hash in the database.
// The plain token is sent to the user; only its hash is stored.
func (r *PostgresPasswordResetRepository) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        INSERT INTO %s (token_hash, user_id, expires_at, used, created_at)
        VALUES ($1, $2, $3, FALSE, $4)
    `, constants.TablePasswordResetTokens)

	_, err := r.db.ExecContext(ctx, query, tokenHash, userID, expiresAt, time.Now())

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, userID, expiresAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}
	return nil
}

// Consume atomically marks a token as used and returns its user ID.
// The single UPDATE makes concurrent consumption of the same token
// impossible: exactly one caller sees the row, the rest get
// ErrTokenNotFound. Expired and already-used tokens fail the same way.
func (r *PostgresPasswordResetRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (int64, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        UPDATE %s
        SET used = TRUE
        WHERE token_hash = $1 AND used = FALSE AND expires_at > $2
        RETURNING user_id
    `, constants.TablePasswordResetTokens)

	var userID int64
	err := r.db.QueryRowContext(ctx, query, tokenHash, now).Scan(&userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, now},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTokenNotFound
		}
		return 0, fmt.Errorf("failed to consume password reset token: %w", err)
	}

	return userID, nil
}

// InvalidateByUserID marks all outstanding tokens for a user as used.
// Issuing a new token calls this first, so only the newest token can
// ever succeed.
func (r *PostgresPasswordResetRepository) InvalidateByUserID(ctx context.Context, userID int64) error {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        UPDATE %s
        SET used = TRUE
        WHERE user_id = $1 AND used = FALSE
    `, constants.TablePasswordResetTokens)

	_, err := r.db.ExecContext(ctx, query, userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to invalidate password reset tokens for user %d: %w", userID, err)
	}
	return nil
}

// DeleteExpired removes tokens whose validity window has passed.
// It returns the number of rows deleted so the maintenance task can log it.
func (r *PostgresPasswordResetRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf("DELETE FROM %s WHERE expires_at <= $1", constants.TablePasswordResetTokens)

	result, err := r.db.ExecContext(ctx, query, now)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{now},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after deleting expired tokens: %w", err)
	}

	return rowsAffected, nil
}
