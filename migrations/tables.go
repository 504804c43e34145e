package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					username VARCHAR(50) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					role VARCHAR(20) NOT NULL DEFAULT 'user',
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					last_login TIMESTAMP,
					CONSTRAINT idx_users_username UNIQUE (username),
					CONSTRAINT idx_users_email UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createPasswordResetTokensTable creates the password_reset_tokens table.
// Tokens are stored hashed; the plain token is only ever held by the user.
func createPasswordResetTokensTable() Migration {
	return Migration{
		Name:        "create_password_reset_tokens_table",
		Description: "Creates the password_reset_tokens table",
		TableName:   "password_reset_tokens",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS password_reset_tokens (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					token_hash VARCHAR(64) NOT NULL,
					expires_at TIMESTAMP NOT NULL,
					used BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
					CONSTRAINT idx_reset_token_hash UNIQUE (token_hash)
				);
				CREATE INDEX IF NOT EXISTS idx_reset_user_id ON password_reset_tokens(user_id);
				CREATE INDEX IF NOT EXISTS idx_reset_expires_at ON password_reset_tokens(expires_at);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
