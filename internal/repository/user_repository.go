package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/database"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetRole(ctx context.Context, id int64, role string) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository
type PostgresUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const userColumns = "id, username, email, password_hash, role, is_active, created_at, last_login"

// scanUser scans a single user row, converting the nullable last_login column.
func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// Create adds a new user to the database
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	// Start query timer
	startTime := time.Now()

	if user.Role == "" {
		user.Role = constants.RoleUser
	}
	user.CreatedAt = time.Now()

	// Define the query with RETURNING for PostgreSQL
	query := `
        INSERT INTO users (username, email, password_hash, role, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `

	// Execute the query
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{user.Username, user.Email, constants.LogRedactedValue, user.Role, user.IsActive, user.CreatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for unique constraint violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			// 23505 is the PostgreSQL error code for unique_violation
			if pqErr.Code == "23505" {
				// The colliding field stays in DevInfo; clients get one
				// generic conflict message either way.
				return utils.NewDuplicateError(fmt.Sprintf("users constraint %s violated", pqErr.Constraint))
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("email", user.Email).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := fmt.Sprintf(`
        SELECT %s
        FROM users
        WHERE id = $1
    `, userColumns)

	// Execute the query
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by exact username.
// Lookups are deliberately case-sensitive: "Alice" and "alice" are
// different identifiers, even though registration prevents both from
// existing with the same spelling.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM users
        WHERE username = $1
    `, userColumns)

	// Execute the query
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{username},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("username=%s", username))
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by exact email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM users
        WHERE email = $1
    `, userColumns)

	// Execute the query
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{email},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("email=%s", utils.MaskEmail(email)))
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByEmailOrUsername retrieves a user whose email or username exactly
// matches the identifier. Login accepts either in a single field, so one
// query covers both.
func (r *PostgresUserRepository) GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM users
        WHERE email = $1 OR username = $1
    `, userColumns)

	// Execute the query
	user, err := scanUser(r.db.QueryRowContext(ctx, query, identifier))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{identifier},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", fmt.Sprintf("identifier=%s", utils.MaskEmail(identifier)))
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return user, nil
}

// Update updates a user's profile fields in the database
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        UPDATE users
        SET username = $1, email = $2
        WHERE id = $3
    `

	// Execute the query
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.ID,
	)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{user.Username, user.Email, user.ID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		// Check for unique constraint violations using PostgreSQL error handling
		if pqErr, ok := err.(*pq.Error); ok {
			// 23505 is the PostgreSQL error code for unique_violation
			if pqErr.Code == "23505" {
				return utils.NewDuplicateError(fmt.Sprintf("users constraint %s violated", pqErr.Constraint))
			}
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", user.ID)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("User updated")

	return nil
}

// Delete removes a user from the database
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	// Execute the delete within a transaction; reset tokens cascade via
	// the foreign key
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := "DELETE FROM users WHERE id = $1"
		result, err := tx.ExecContext(ctx, query, id)

		// Log the query execution
		utils.LogDBQuery(
			query,
			[]interface{}{id},
			time.Since(startTime),
			err,
		)

		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		// Check if any rows were affected
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		if rowsAffected == 0 {
			return utils.NewNotFoundError("User", id)
		}

		log.Info().
			Int64("user_id", id).
			Msg("User deleted")

		return nil
	})
}

// ChangePassword updates a user's password hash
func (r *PostgresUserRepository) ChangePassword(ctx context.Context, id int64, passwordHash string) error {
	// Start query timer
	startTime := time.Now()

	// Define the query
	query := `
        UPDATE users
        SET password_hash = $1
        WHERE id = $2
    `

	// Execute the query
	result, err := r.db.ExecContext(ctx, query, passwordHash, id)

	// Log the query execution (without sensitive data)
	utils.LogDBQuery(
		query,
		[]interface{}{constants.LogRedactedValue, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Check if any rows were affected
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().
		Int64("user_id", id).
		Msg("User password changed")

	return nil
}

// TouchLastLogin records a successful login timestamp
func (r *PostgresUserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	// Start query timer
	startTime := time.Now()

	query := `
        UPDATE users
        SET last_login = $1
        WHERE id = $2
    `

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now, id)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{now, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	return nil
}

// SetActive activates or deactivates a user account
func (r *PostgresUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	// Start query timer
	startTime := time.Now()

	query := `
        UPDATE users
        SET is_active = $1
        WHERE id = $2
    `

	result, err := r.db.ExecContext(ctx, query, active, id)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{active, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update active state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().
		Int64("user_id", id).
		Bool("is_active", active).
		Msg("User active state changed")

	return nil
}

// SetRole changes a user's role
func (r *PostgresUserRepository) SetRole(ctx context.Context, id int64, role string) error {
	// Start query timer
	startTime := time.Now()

	query := `
        UPDATE users
        SET role = $1
        WHERE id = $2
    `

	result, err := r.db.ExecContext(ctx, query, role, id)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{role, id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return utils.NewNotFoundError("User", id)
	}

	log.Info().
		Int64("user_id", id).
		Str("role", role).
		Msg("User role changed")

	return nil
}

// List retrieves users ordered by ID with limit/offset pagination
func (r *PostgresUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`
        SELECT %s
        FROM users
        ORDER BY id
        LIMIT $1 OFFSET $2
    `, userColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{limit, offset},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var lastLogin sql.NullTime

		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.IsActive,
			&user.CreatedAt,
			&lastLogin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}

		if lastLogin.Valid {
			user.LastLogin = &lastLogin.Time
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// ExistsByUsername checks if a user with the given username exists
func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query for PostgreSQL
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	// Execute the query
	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{username},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to check if username exists: %w", err)
	}

	return exists, nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	// Start query timer
	startTime := time.Now()

	// Define the query for PostgreSQL
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	// Execute the query
	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{email},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}

	return exists, nil
}
