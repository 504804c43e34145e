// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP-related constants such as status codes,
// response codes, headers, and content types. These constants ensure consistent
// HTTP communication patterns across the application and provide meaningful
// standardized responses to API clients. The security header values implement
// recommended web security best practices.
package constants

// HTTP Status Codes define the standard HTTP response status codes used in the application.
const (
	// StatusOK indicates that the request has succeeded.
	StatusOK = 200

	// StatusCreated indicates that the request has succeeded and a new resource has been created.
	StatusCreated = 201

	// StatusNoContent indicates that the request has succeeded but there is no content to send.
	StatusNoContent = 204

	// StatusBadRequest indicates that the server cannot process the request due to client error.
	StatusBadRequest = 400

	// StatusUnauthorized indicates that the request lacks valid authentication credentials.
	StatusUnauthorized = 401

	// StatusForbidden indicates that the server understood the request but refuses to authorize it.
	StatusForbidden = 403

	// StatusNotFound indicates that the server cannot find the requested resource.
	StatusNotFound = 404

	// StatusMethodNotAllowed indicates that the request method is not supported for the requested resource.
	StatusMethodNotAllowed = 405

	// StatusConflict indicates that the request conflicts with the current state of the server.
	StatusConflict = 409

	// StatusInternalServerError indicates that the server encountered an unexpected condition.
	StatusInternalServerError = 500
)

// HTTP Response Code Types define application-specific response codes.
// These codes provide more detailed information about the response beyond HTTP status codes.
const (
	// ResponseSuccess indicates that the request was processed successfully.
	ResponseSuccess = true

	// ResponseFailure indicates that the request processing failed.
	ResponseFailure = false

	// CodeBadRequest indicates a malformed or invalid request.
	CodeBadRequest = "bad_request"

	// CodeUnauthorized indicates missing or invalid authentication.
	CodeUnauthorized = "unauthorized"

	// CodeForbidden indicates the user lacks permission for the requested action.
	CodeForbidden = "forbidden"

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound = "not_found"

	// CodeMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	CodeMethodNotAllowed = "method_not_allowed"

	// CodeConflict indicates a resource conflict, such as a duplicate entry.
	CodeConflict = "conflict"

	// CodeInternalError indicates an unexpected server error.
	CodeInternalError = "internal_error"

	// CodeValidationError indicates request validation failed.
	CodeValidationError = "validation_error"

	// CodeInvalidCredentials indicates provided authentication credentials are incorrect.
	CodeInvalidCredentials = "invalid_credentials"

	// CodeTokenExpired indicates an authentication token has expired.
	CodeTokenExpired = "token_expired"

	// CodeTokenInvalid indicates an authentication token is malformed or invalid.
	CodeTokenInvalid = "token_invalid"

	// CodeDuplicateResource indicates an attempt to create a resource that already exists.
	CodeDuplicateResource = "duplicate_resource"

	// CodeAuthenticationFailed indicates a general authentication failure.
	CodeAuthenticationFailed = "authentication_failed"
)

// HTTP Header Names define common HTTP headers used in requests and responses.
const (
	// HeaderContentType specifies the media type of the resource.
	HeaderContentType = "Content-Type"

	// HeaderAuthorization carries credentials for authenticating the client.
	HeaderAuthorization = "Authorization"

	// HeaderXRequestID carries a unique identifier for request tracing.
	HeaderXRequestID = "X-Request-ID"

	// HeaderXContentTypeOptions prevents MIME type sniffing.
	HeaderXContentTypeOptions = "X-Content-Type-Options"

	// HeaderXFrameOptions prevents clickjacking via frames.
	HeaderXFrameOptions = "X-Frame-Options"

	// HeaderXXSSProtection enables browser XSS filtering.
	HeaderXXSSProtection = "X-XSS-Protection"

	// HeaderReferrerPolicy controls referrer information sent with requests.
	HeaderReferrerPolicy = "Referrer-Policy"

	// HeaderContentSecurityPolicy restricts resource loading origins.
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// HTTP Header Values define standard values for common headers.
const (
	// ContentTypeJSON is the content type for JSON payloads.
	ContentTypeJSON = "application/json"

	// BearerTokenPrefix is the prefix for bearer tokens in the Authorization header.
	BearerTokenPrefix = "Bearer "

	// ContentTypeOptionsNoSniff disables MIME type sniffing.
	ContentTypeOptionsNoSniff = "nosniff"

	// FrameOptionsDeny disallows rendering the page in any frame.
	FrameOptionsDeny = "DENY"

	// XSSProtectionModeBlock enables XSS filtering and blocks rendering on detection.
	XSSProtectionModeBlock = "1; mode=block"

	// ReferrerPolicyStrictOrigin sends only the origin for cross-origin requests.
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"

	// CSPDefaultSrc restricts all resource loading to the same origin.
	CSPDefaultSrc = "default-src 'self'"
)

// Standard Response Messages define common user-facing messages.
const (
	// MsgAuthRequired is returned when authentication is missing or invalid.
	MsgAuthRequired = "Authentication required"

	// MsgAccessDenied is returned when the user lacks permission.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgResourceNotFound is returned when a resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgMethodNotAllowed is returned for unsupported HTTP methods.
	MsgMethodNotAllowed = "Method not allowed"

	// MsgInternalServerError is returned for unexpected server errors.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired is returned when an authentication token has expired.
	MsgTokenExpired = "Token has expired"

	// MsgInvalidCredentials is returned for any failed login attempt.
	// The same message covers unknown accounts and wrong passwords.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgAccountExists is returned when registration collides with an
	// existing account. It deliberately does not say which field collided.
	// Note that the /check/username and /check/email availability endpoints
	// answer the same question directly, so this message only keeps the
	// signup error itself from being a second oracle. The check endpoints
	// are throttled (AvailabilityCheckConcurrency) to slow bulk enumeration.
	MsgAccountExists = "An account with that email or username already exists"

	// MsgResetRequested is the generic response to every password reset
	// request, whether or not the email is registered.
	MsgResetRequested = "If an account with that email exists, a password reset link has been sent."

	// MsgResetTokenInvalid is returned for any unusable reset token:
	// unknown, expired, or already used.
	MsgResetTokenInvalid = "Invalid or expired password reset token"

	// MsgRequestBodyTooLarge is returned when the request body exceeds the size limit.
	MsgRequestBodyTooLarge = "Request body is too large"

	// MsgEmptyRequestBody is returned when the request body is empty.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON is returned when the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"
)
