// internal/utils/validation.go
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
)

// PasswordPolicy describes the complexity rules enforced at registration and
// password reset. The policy is configuration, not core logic: the hasher
// never sees it.
type PasswordPolicy struct {
	MinLength      int
	MaxLength      int
	RequireUpper   bool
	RequireDigit   bool
	RequireSymbol  bool
	SymbolAlphabet string
}

// DefaultPasswordPolicy returns the canonical Tunegie password policy.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      constants.MinPasswordLength,
		MaxLength:      constants.MaxPasswordLength,
		RequireUpper:   true,
		RequireDigit:   true,
		RequireSymbol:  true,
		SymbolAlphabet: "!@#$%^&*()_+=-[]{}|;:,.<>?/",
	}
}

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// passwordPolicy is the active policy, set once at startup.
	passwordPolicy = DefaultPasswordPolicy()
)

// SetPasswordPolicy replaces the active password policy. It is called once
// during server setup, before any requests are served.
func SetPasswordPolicy(p PasswordPolicy) {
	if p.MinLength <= 0 {
		p.MinLength = constants.MinPasswordLength
	}
	if p.MaxLength <= 0 {
		p.MaxLength = constants.MaxPasswordLength
	}
	if p.SymbolAlphabet == "" {
		p.SymbolAlphabet = DefaultPasswordPolicy().SymbolAlphabet
	}
	passwordPolicy = p
}

// InitValidator initializes the validator with custom validations
func InitValidator() {
	validate = validator.New()

	// Register function to get json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations(validate)

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// DecodeJSON decodes a JSON request body into the provided struct
// with improved error handling and size limits
func DecodeJSON(r *http.Request, v interface{}) error {
	// Limit the size of the request body to prevent DOS attacks
	r.Body = http.MaxBytesReader(nil, r.Body, constants.MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case err.Error() == "http: request body too large":
			return NewBadRequestError(constants.MsgRequestBodyTooLarge)

		case err == io.EOF:
			return NewBadRequestError(constants.MsgEmptyRequestBody)

		case err == io.ErrUnexpectedEOF:
			return NewBadRequestError(constants.MsgMalformedJSON)

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return NewValidationError("unknown_field", fmt.Sprintf("Request body contains unknown field %s", fieldName))

		case errors.As(err, &syntaxError):
			return NewBadRequestError(fmt.Sprintf("Request body contains malformed JSON (at position %d)", syntaxError.Offset))

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return NewValidationError(unmarshalTypeError.Field, fmt.Sprintf("Must be a %s", unmarshalTypeError.Type.String()))
			}
			return NewBadRequestError(fmt.Sprintf("Request body contains incorrect JSON type (at position %d)", unmarshalTypeError.Offset))

		case errors.As(err, &invalidUnmarshalError):
			return NewInternalServerError(err)

		default:
			return NewBadRequestError(fmt.Sprintf("Error decoding JSON: %s", err.Error()))
		}
	}

	// Check for additional JSON data that would be ignored
	if dec.More() {
		return NewBadRequestError("Request body must only contain a single JSON object")
	}

	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(v interface{}) error {
	if validate == nil {
		InitValidator()
	}

	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	// Handle validation errors
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		// If only one field has an error, return a specific field error
		if len(validationErrors) == 1 {
			e := validationErrors[0]
			return NewValidationError(e.Field(), getErrorMessage(e))
		}

		// Create a validation error with details for all fields
		details := make(map[string]string)
		for _, e := range validationErrors {
			details[e.Field()] = getErrorMessage(e)
		}

		return NewValidationErrorWithDetails("Multiple validation errors", details)
	}

	// Handle other validation errors
	return NewBadRequestError(err.Error())
}

// DecodeAndValidate decodes a JSON request body and validates it
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateStruct(v)
}

// getErrorMessage returns a user-friendly error message for a validation error
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters long", e.Param())
		}
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "max":
		if e.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters long", e.Param())
		}
		return fmt.Sprintf("Must be at most %s", e.Param())
	case "eqfield":
		return fmt.Sprintf("Must match the %s field", e.Param())
	case "oneof":
		allowedValues := strings.Replace(e.Param(), " ", ", ", -1)
		return fmt.Sprintf("Must be one of: %s", allowedValues)
	case "alphanum":
		return "Must contain only alphanumeric characters"
	case "strong_password":
		return "Password must contain at least one uppercase letter, one digit, and one symbol"
	default:
		return fmt.Sprintf("Failed validation on the '%s' tag", e.Tag())
	}
}

// registerCustomValidations adds custom validation functions to the validator
func registerCustomValidations(v *validator.Validate) {
	if err := v.RegisterValidation("strong_password", validateStrongPassword); err != nil {
		log.Error().Err(err).Msg("Failed to register strong_password validation")
	}
}

// validateStrongPassword enforces the active PasswordPolicy.
func validateStrongPassword(fl validator.FieldLevel) bool {
	return passwordMeetsPolicy(fl.Field().String(), passwordPolicy)
}

func passwordMeetsPolicy(password string, p PasswordPolicy) bool {
	if len(password) < p.MinLength || len(password) > p.MaxLength {
		return false
	}

	hasUpper := false
	hasDigit := false
	hasSymbol := false

	for _, char := range password {
		switch {
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune(p.SymbolAlphabet, char):
			hasSymbol = true
		}
	}

	if p.RequireUpper && !hasUpper {
		return false
	}
	if p.RequireDigit && !hasDigit {
		return false
	}
	if p.RequireSymbol && !hasSymbol {
		return false
	}
	return true
}

// NewValidationErrorWithDetails creates a validation error with multiple field details
func NewValidationErrorWithDetails(message string, details map[string]string) *AppError {
	detailsMap := make(map[string]interface{})
	for k, v := range details {
		detailsMap[k] = v
	}

	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Details:    detailsMap,
	}
}

// IsValidEmail checks if a string is a valid email address
func IsValidEmail(email string) bool {
	return GetValidator().Var(email, "email") == nil
}

// ValidateUsername validates a username
func ValidateUsername(username string) error {
	if len(username) < constants.MinUsernameLength {
		return NewValidationError(constants.ColumnUsername, fmt.Sprintf("Username must be at least %d characters long", constants.MinUsernameLength))
	}
	if len(username) > constants.MaxUsernameLength {
		return NewValidationError(constants.ColumnUsername, fmt.Sprintf("Username must be at most %d characters long", constants.MaxUsernameLength))
	}
	if err := GetValidator().Var(username, "alphanum"); err != nil {
		return NewValidationError(constants.ColumnUsername, "Username must contain only alphanumeric characters")
	}
	return nil
}

// ValidatePassword validates a password against the active policy
func ValidatePassword(password string) error {
	if len(password) < passwordPolicy.MinLength {
		return NewValidationError("password", fmt.Sprintf("Password must be at least %d characters long", passwordPolicy.MinLength))
	}
	if len(password) > passwordPolicy.MaxLength {
		return NewValidationError("password", fmt.Sprintf("Password must be at most %d characters long", passwordPolicy.MaxLength))
	}

	if !passwordMeetsPolicy(password, passwordPolicy) {
		return NewValidationError("password", "Password must contain at least one uppercase letter, one digit, and one symbol")
	}

	return nil
}
