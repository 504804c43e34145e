// internal/utils/logger.go
package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	// Set global log level
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		// Default to info level if invalid
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure logger output format
	var output io.Writer = os.Stdout
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    false, // Enable colors for development
		}
	}

	// Set global logger
	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()

	log.Info().Msg("Logger initialized")
}

// RequestLogger creates a logger with request-specific context
func RequestLogger(requestID, userID, method, path string) zerolog.Logger {
	logger := log.With().
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path)

	if userID != "" {
		logger = logger.Str(constants.UserIDContextKey, userID)
	}

	return logger.Logger()
}

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr, userAgent string, statusCode int, latency time.Duration) {
	// Only log some paths at debug level to reduce noise
	if path == constants.HealthPath {
		if zerolog.GlobalLevel() != zerolog.DebugLevel {
			return // Skip logging entirely for high-volume endpoints in non-debug mode
		}
	}

	event := log.Debug()

	// Elevate error responses to warning/error level
	if statusCode >= 400 && statusCode < 500 {
		event = log.Warn()
	} else if statusCode >= 500 {
		event = log.Error()
	} else if strings.HasPrefix(path, constants.APIBasePath) {
		// Log API requests at info level
		event = log.Info()
	}

	// Include request details
	event.
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Str("user_agent", userAgent).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogError logs an error with context information
func LogError(err error, context map[string]interface{}) {
	event := log.Error().Err(err)

	// Add context information
	for key, value := range context {
		switch v := value.(type) {
		case string:
			event = event.Str(key, v)
		case int:
			event = event.Int(key, v)
		case int64:
			event = event.Int64(key, v)
		case float64:
			event = event.Float64(key, v)
		case bool:
			event = event.Bool(key, v)
		default:
			event = event.Interface(key, v)
		}
	}

	event.Msg("Error occurred")
}

// LogPanic logs a recovered panic value
func LogPanic(recovered interface{}, stack []byte) {
	log.Error().
		Interface("panic", recovered).
		Str("stack", string(stack)).
		Msg("Panic recovered")
}

// LogDBQuery logs a database query for debugging
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	// Mask sensitive data in the arguments (e.g., password)
	safeArgs := make([]interface{}, len(args))
	for i, arg := range args {
		// Check if the argument might contain sensitive data
		if s, ok := arg.(string); ok {
			if strings.Contains(strings.ToLower(query), constants.ColumnPasswordHash) ||
				strings.Contains(strings.ToLower(query), "secret") ||
				strings.Contains(strings.ToLower(query), "token") {
				safeArgs[i] = constants.LogRedactedValue
			} else {
				safeArgs[i] = s
			}
		} else {
			safeArgs[i] = arg
		}
	}

	event := log.Debug()

	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str("query", query).
		Interface("args", safeArgs).
		Dur("duration", duration).
		Msg("Database query executed")
}

// LogAuth logs authentication events
func LogAuth(event string, userID, username string, success bool, reason string) {
	logEvent := log.Info()
	if !success {
		logEvent = log.Warn()
	}

	logEvent.
		Str("event", event).
		Str(constants.UserIDContextKey, userID).
		Str(constants.UsernameContextKey, username).
		Bool("success", success)

	if reason != "" {
		logEvent = logEvent.Str("reason", reason)
	}

	logEvent.Msg("Authentication event")
}

// GetLogLevel returns the current global log level as a string
func GetLogLevel() string {
	return zerolog.GlobalLevel().String()
}

// SetLogLevel updates the global log level
func SetLogLevel(level string) error {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}

	zerolog.SetGlobalLevel(parsedLevel)
	log.Info().Str("level", parsedLevel.String()).Msg("Log level changed")

	return nil
}
