package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					// Capture the stack trace
					stack := debug.Stack()

					// Get the request ID for correlation
					requestID, _ := auth.GetRequestID(r)

					log.Error().
						Str("request_id", requestID).
						Interface("panic", err).
						Str("stack", string(stack)).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("remote_addr", r.RemoteAddr).
						Msg("Panic recovered in request handler")

					// Return a 500 Internal Server Error
					utils.Error(
						w,
						http.StatusInternalServerError,
						constants.CodeInternalError,
						"An unexpected error occurred while processing your request",
						nil,
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// LogAndContinueOnError logs an error but allows execution to continue
// This is useful for non-critical errors that should be logged but not cause a panic
func LogAndContinueOnError(err error, message string) {
	if err != nil {
		log.Error().Err(err).Msg(message)
	}
}
