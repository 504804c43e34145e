// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings, establish boundaries for resource usage, and define security
// parameters. Changes to these values may significantly impact application
// behavior, performance, and security.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultJWTIssuer is the default issuer claim for signed tokens.
	DefaultJWTIssuer = "tunegie-api"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Limits define the maximum allowed sizes for client input.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default Password Hash Settings define the parameters for password hashing.
const (
	// DefaultBcryptCost is the bcrypt work factor used in production. Higher
	// values increase security but make each hash slower to compute.
	DefaultBcryptCost = 12

	// DevBcryptCost is a reduced work factor for development and tests.
	DevBcryptCost = 4
)
