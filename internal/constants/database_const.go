// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and column names. These constants ensure consistent and
// correct database access patterns throughout the application, reducing the risk
// of SQL errors and simplifying database schema changes.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TablePasswordResetTokens is the name of the table storing hashed
	// password reset tokens.
	TablePasswordResetTokens = "password_reset_tokens"
)

// Common Column Names define frequently used database column names.
const (
	// ColumnID is the generic primary key column name.
	ColumnID = "id"

	// ColumnUserID is the column name for user identifier foreign keys.
	ColumnUserID = "user_id"

	// ColumnUsername is the column name for user usernames.
	ColumnUsername = "username"

	// ColumnEmail is the column name for user email addresses.
	ColumnEmail = "email"

	// ColumnPasswordHash is the column name for hashed passwords.
	ColumnPasswordHash = "password_hash"

	// ColumnRole is the column name for user roles.
	ColumnRole = "role"

	// ColumnIsActive is the column name for the account active flag.
	ColumnIsActive = "is_active"

	// ColumnTokenHash is the column name for hashed reset token secrets.
	ColumnTokenHash = "token_hash"

	// ColumnExpiresAt is the column name for expiry timestamps.
	ColumnExpiresAt = "expires_at"

	// ColumnUsed is the column name for the reset-token consumed flag.
	ColumnUsed = "used"

	// ColumnCreatedAt is the column name for creation timestamps.
	ColumnCreatedAt = "created_at"

	// ColumnLastLogin is the column name for the last successful login timestamp.
	ColumnLastLogin = "last_login"
)
