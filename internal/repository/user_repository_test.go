package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/database"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/repository"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// setupUserRepositoryTest creates a new test database connection and mock
func setupUserRepositoryTest(t *testing.T) (*repository.PostgresUserRepository, sqlmock.Sqlmock, func()) {
	// Create a new SQL mock database
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	// Create a database pool with the mock database
	dbPool := &database.Pool{DB: db}

	// Create a new repository with the mocked database
	repo := repository.NewUserRepository(dbPool).(*repository.PostgresUserRepository)

	// Return the repository, mock and a cleanup function
	return repo, mock, func() {
		db.Close()
	}
}

func userRows(user *models.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "last_login"})
	var lastLogin interface{}
	if user.LastLogin != nil {
		lastLogin = *user.LastLogin
	}
	return rows.AddRow(user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, lastLogin)
}

func TestUserRepository_Create(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	// Set up test data
	user := &models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	// Setup for PostgreSQL RETURNING clause
	rows := sqlmock.NewRows([]string{"id"}).AddRow(1)

	// CreatedAt is set inside the method, so match it loosely
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.PasswordHash, "user", user.IsActive, sqlmock.AnyArg()).
		WillReturnRows(rows)

	// Execute the method being tested
	err := repo.Create(context.Background(), user)

	// Assert the results
	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID) // ID should be set from RETURNING clause
	assert.Equal(t, "user", user.Role) // Default role applied
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateConstraint(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	// Set up test data
	user := &models.User{
		Username:     "duplicate",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	// Mock a PostgreSQL unique violation on the username constraint
	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "idx_users_username",
	}
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.PasswordHash, "user", user.IsActive, sqlmock.AnyArg()).
		WillReturnError(pqErr)

	// Execute the method being tested
	err := repo.Create(context.Background(), user)

	// Assert the results
	assert.Error(t, err)
	assert.True(t, utils.IsDuplicateError(err))

	// The client-facing message must not single out the colliding field;
	// the constraint name stays in DevInfo for the logs
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, constants.MsgAccountExists, appErr.Message)
	assert.Contains(t, appErr.DevInfo, "idx_users_username")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DatabaseError(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	user := &models.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		IsActive:     true,
	}

	// Mock a generic database error
	dbErr := errors.New("database connection error")
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Username, user.Email, user.PasswordHash, "user", user.IsActive, sqlmock.AnyArg()).
		WillReturnError(dbErr)

	// Execute the method being tested
	err := repo.Create(context.Background(), user)

	// Assert the results
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	// Set up test data
	now := time.Now()
	expected := &models.User{
		ID:           1,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         "user",
		IsActive:     true,
		CreatedAt:    now,
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(expected.ID).
		WillReturnRows(userRows(expected))

	// Execute the method being tested
	user, err := repo.GetByID(context.Background(), expected.ID)

	// Assert the results
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, expected.ID, user.ID)
	assert.Equal(t, expected.Username, user.Username)
	assert.Nil(t, user.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	// Execute the method being tested
	user, err := repo.GetByID(context.Background(), 999)

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	loginTime := time.Now().Add(-1 * time.Hour)
	expected := &models.User{
		ID:           1,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         "user",
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		LastLogin:    &loginTime,
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs(expected.Username).
		WillReturnRows(userRows(expected))

	// Execute the method being tested
	user, err := repo.GetByUsername(context.Background(), expected.Username)

	// Assert the results
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, expected.Username, user.Username)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, loginTime, *user.LastLogin, time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	// Execute the method being tested
	user, err := repo.GetByEmail(context.Background(), "missing@example.com")

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailOrUsername(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	expected := &models.User{
		ID:           1,
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         "user",
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}

	// One query matches the identifier against both columns
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1 OR username = \$1`).
		WithArgs("testuser").
		WillReturnRows(userRows(expected))

	// Execute the method being tested
	user, err := repo.GetByEmailOrUsername(context.Background(), "testuser")

	// Assert the results
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, expected.ID, user.ID)
	assert.Equal(t, expected.Email, user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmailOrUsername_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1 OR username = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	// Execute the method being tested
	user, err := repo.GetByEmailOrUsername(context.Background(), "missing")

	// Assert the results
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	user := &models.User{
		ID:       1,
		Username: "newname",
		Email:    "new@example.com",
	}

	mock.ExpectExec("UPDATE users").
		WithArgs(user.Username, user.Email, user.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.Update(context.Background(), user)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	user := &models.User{
		ID:       999,
		Username: "newname",
		Email:    "new@example.com",
	}

	mock.ExpectExec("UPDATE users").
		WithArgs(user.Username, user.Email, user.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Execute the method being tested
	err := repo.Update(context.Background(), user)

	// Assert the results
	assert.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Execute the method being tested
	err := repo.Delete(context.Background(), 1)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Execute the method being tested
	err := repo.Delete(context.Background(), 999)

	// Assert the results
	assert.Error(t, err)
	assert.True(t, utils.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ChangePassword(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users").
		WithArgs("new_hash", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.ChangePassword(context.Background(), 1, "new_hash")

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users").
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.TouchLastLogin(context.Background(), 1)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActive(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users").
		WithArgs(false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.SetActive(context.Background(), 1, false)

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetRole(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectExec("UPDATE users").
		WithArgs("admin", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Execute the method being tested
	err := repo.SetRole(context.Background(), 1, "admin")

	// Assert the results
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "last_login"}).
		AddRow(int64(1), "alice", "alice@example.com", "hash1", "user", true, now, nil).
		AddRow(int64(2), "bob", "bob@example.com", "hash2", "admin", true, now, now)

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY id").
		WithArgs(20, 0).
		WillReturnRows(rows)

	// Execute the method being tested
	users, err := repo.List(context.Background(), 20, 0)

	// Assert the results
	assert.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Nil(t, users[0].LastLogin)
	assert.Equal(t, "bob", users[1].Username)
	assert.NotNil(t, users[1].LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("testuser").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	// Execute the method being tested
	exists, err := repo.ExistsByUsername(context.Background(), "testuser")

	// Assert the results
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	// Set up the test
	repo, mock, cleanup := setupUserRepositoryTest(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	// Execute the method being tested
	exists, err := repo.ExistsByEmail(context.Background(), "missing@example.com")

	// Assert the results
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
