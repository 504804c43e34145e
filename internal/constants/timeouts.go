package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout   = 10 * time.Second
	DBHealthCheckTimeout  = 5 * time.Second
	DBConnMaxLifetime     = 1 * time.Hour
	DBConnMaxIdleTime     = 30 * time.Minute
	DBMaintenanceInterval = 1 * time.Hour
)

// Authentication Timeouts
const (
	DefaultJWTExpiry = 24 * time.Hour

	// DefaultResetTokenExpiry is the validity window of a password reset token.
	DefaultResetTokenExpiry = 1 * time.Hour
)
