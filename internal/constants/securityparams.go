package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	UsernameContextKey  = "username"
	RoleContextKey      = "role"
	RequestIDContextKey = "request_id"
)

// User Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Password Validation
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxEmailLength    = 255
)

// Reset Token Parameters
const (
	// ResetTokenByteLength is the entropy of a reset secret before hex encoding.
	ResetTokenByteLength = 32
)

// Request Limits
const (
	// AvailabilityCheckConcurrency caps in-flight requests to the public
	// username/email availability endpoints, which would otherwise allow
	// fast bulk enumeration of registered accounts.
	AvailabilityCheckConcurrency = 5
)

// Log Redaction
const (
	LogRedactedValue = "[REDACTED]"
)
