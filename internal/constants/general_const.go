// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing
// and request parameters. These constants ensure consistent API patterns and URL
// structure throughout the application, making the API more predictable and easier
// to maintain.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamUserID is the URL parameter for user identifiers.
	ParamUserID = "userID"
)

// Query Parameters define common query string parameter names.
const (
	// QueryParamUsername is the query parameter for username availability checks.
	QueryParamUsername = "username"

	// QueryParamEmail is the query parameter for email availability checks.
	QueryParamEmail = "email"
)
