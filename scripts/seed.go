// Package scripts provides utility scripts for database and system management.
//
// This package implements database seeding functionality to populate initial data
// required for the application to function properly. The seeding system works
// similarly to migrations, tracking executed seeds to ensure they only run once,
// making the process idempotent and safe to run on both new and existing databases.
package scripts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/database"
)

// Seeder handles database seeding.
// It provides methods to run seeds that populate the database
// with initial required data.
type Seeder struct {
	db  *database.Pool
	cfg *config.AppConfig
}

// NewSeeder creates a new seeder.
func NewSeeder(db *database.Pool, cfg *config.AppConfig) *Seeder {
	return &Seeder{
		db:  db,
		cfg: cfg,
	}
}

// SeedDatabase seeds the database with initial data.
// It creates the seeds tracking table if it doesn't exist, then runs
// all seed functions that haven't been executed yet.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	// Create seeds table if it doesn't exist
	if err := s.createSeedsTable(ctx); err != nil {
		return fmt.Errorf("failed to create seeds table: %w", err)
	}

	// Get executed seeds
	executedSeeds, err := s.getExecutedSeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed seeds: %w", err)
	}

	// Run seeds that haven't been executed yet
	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context, tx *sql.Tx) error
	}{
		{"admin_account", s.seedAdminAccount},
		// Add more seeds here if needed
	}

	for _, seed := range seeds {
		if !executedSeeds[seed.Name] {
			log.Info().Str("seed", seed.Name).Msg("Running seed")
			if err := s.runSeed(ctx, seed.Name, seed.SeedFunc); err != nil {
				return err
			}
		} else {
			log.Debug().Str("seed", seed.Name).Msg("Seed already executed")
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// createSeedsTable creates the seeds table if it doesn't exist.
// This table tracks which seed operations have been executed.
func (s *Seeder) createSeedsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS seeds (
			name VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getExecutedSeeds returns a map of executed seeds.
// The map keys are seed names and values are always true.
func (s *Seeder) getExecutedSeeds(ctx context.Context) (map[string]bool, error) {
	query := `SELECT name FROM seeds`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close rows")
		}
	}()

	seeds := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		seeds[name] = true
	}

	return seeds, rows.Err()
}

// runSeed runs a seed function within a transaction.
// If the seed operation fails, the transaction is rolled back.
func (s *Seeder) runSeed(ctx context.Context, name string, seedFunc func(ctx context.Context, tx *sql.Tx) error) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		// Run the seed
		if err := seedFunc(ctx, tx); err != nil {
			return fmt.Errorf("seed %s failed: %w", name, err)
		}

		// Record the seed
		query := `INSERT INTO seeds (name) VALUES ($1)`
		_, err := tx.ExecContext(ctx, query, name)
		if err != nil {
			return fmt.Errorf("failed to record seed: %w", err)
		}

		return nil
	})
}

// seedAdminAccount creates the bootstrap admin account from configuration.
// The seed is skipped entirely when no admin credentials are configured, and
// it never overwrites an existing account with the same username or email.
func (s *Seeder) seedAdminAccount(ctx context.Context, tx *sql.Tx) error {
	seed := s.cfg.Seed
	if seed.AdminUsername == "" || seed.AdminEmail == "" || seed.AdminPassword == "" {
		log.Info().Msg("No admin account configured, skipping admin seed")
		return nil
	}

	// Check whether an account with the configured username or email exists
	var count int
	countQuery := `SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2`
	err := tx.QueryRowContext(ctx, countQuery, seed.AdminUsername, seed.AdminEmail).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin account: %w", err)
	}

	if count > 0 {
		log.Info().
			Str("username", seed.AdminUsername).
			Msg("Admin account already exists, skipping admin seed")
		return nil
	}

	hasher := auth.HasherFromAppConfig(s.cfg)
	passwordHash, err := hasher.HashPassword(seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	query := `
		INSERT INTO users (username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`
	_, err = tx.ExecContext(ctx, query, seed.AdminUsername, seed.AdminEmail, passwordHash, constants.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to insert admin account: %w", err)
	}

	log.Info().
		Str("username", seed.AdminUsername).
		Msg("Admin account created")

	return nil
}
