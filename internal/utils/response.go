// Package utils provides utility functions and helpers for the application.
// This file implements a standardized API response system that ensures
// consistent response formats across all API endpoints.
//
// The response system includes:
//   - A standard Response structure for all API responses
//   - Convenience functions for common response types (success, error)
//   - HTTP status code helpers
//
// This ensures that all API responses follow the same format, making it easier
// for clients to parse and handle responses predictably.
package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
)

// Response represents a standardized API response.
// All API endpoints return responses in this format for consistency.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
}

// ErrorInfo represents error information in the response.
// This provides structured error information to clients.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details about the error (e.g., validation errors)
}

// JSON sends a JSON response with the given status code and data.
// This is the primary function for sending successful responses.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code and error information.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: constants.ResponseFailure,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response based on an AppError.
// This provides a convenient way to convert application errors to API responses.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	// Extract error code from the underlying error
	errCode := constants.CodeInternalError
	switch err.Err {
	case ErrNotFound:
		errCode = constants.CodeNotFound
	case ErrBadRequest:
		errCode = constants.CodeBadRequest
	case ErrUnauthorized, ErrRevoked:
		errCode = constants.CodeUnauthorized
	case ErrForbidden:
		errCode = constants.CodeForbidden
	case ErrValidation:
		errCode = constants.CodeValidationError
	case ErrDuplicate:
		errCode = constants.CodeDuplicateResource
	case ErrInvalidCredentials:
		errCode = constants.CodeInvalidCredentials
	case ErrExpiredToken:
		errCode = constants.CodeTokenExpired
	case ErrInvalidToken:
		errCode = constants.CodeTokenInvalid
	case ErrResetTokenInvalid:
		errCode = constants.CodeTokenInvalid
	}

	// Create error details if field is present
	var details map[string]string
	if err.Field != "" {
		details = map[string]string{
			err.Field: err.Message,
		}
	}

	Error(w, err.StatusCode, errCode, err.Message, details)
}

// SendJSON is a helper function to send JSON data with proper headers.
// This handles JSON marshaling and error handling for all response types.
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	jsonData, err := json.Marshal(data)
	if err != nil {
		// If marshaling fails, log the error and send a simple error response
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"success":false,"error":{"code":"internal_error","message":"Failed to generate response"}}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	if _, err = w.Write(jsonData); err != nil {
		// Log write errors but don't try to recover
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// NoContent sends a 204 No Content response.
// This is used for successful operations that don't return any data.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(constants.StatusNoContent)
}

// BadRequest sends a 400 Bad Request response with the given message.
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, constants.StatusBadRequest, constants.CodeBadRequest, message, details)
}

// Unauthorized sends a 401 Unauthorized response with the given message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, constants.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAccessDenied
	}
	Error(w, constants.StatusForbidden, constants.CodeForbidden, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, constants.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, constants.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
}

// Conflict sends a 409 Conflict response with the given message.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, constants.StatusConflict, constants.CodeConflict, message, nil)
}

// InternalServerError sends a 500 Internal Server Error response.
// The error is logged but never exposed to the client.
func InternalServerError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Internal server error")
	Error(w, constants.StatusInternalServerError, constants.CodeInternalError, constants.MsgInternalServerError, nil)
}

// ValidationError sends a 400 Bad Request response with validation error details.
func ValidationError(w http.ResponseWriter, errors map[string]string) {
	Error(w, constants.StatusBadRequest, constants.CodeValidationError, "Validation failed", errors)
}
