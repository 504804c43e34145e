package handlers

import (
	"errors"
	"net/http"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/service"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService *service.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, jwtService *auth.JWTService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Register the user
	user, accessToken, err := h.authService.RegisterUser(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the newly created user, signed in
	utils.JSON(w, http.StatusCreated, map[string]interface{}{
		"user":         user,
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtService.GetConfig().Expiry.Seconds()),
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.authService == nil {
		utils.InternalServerError(w, errors.New("auth service not initialized"))
		return
	}

	// Decode and validate the request body
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Authenticate the user
	user, accessToken, err := h.authService.AuthenticateUser(r.Context(), &creds)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the access token and user info
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtService.GetConfig().Expiry.Seconds()),
	})
}

// Logout handles user logout. Access tokens are stateless, so the
// server has nothing to invalidate; the client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return success
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully logged out",
	})
}

// VerifyToken checks if the current token is valid
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	// The auth middleware already verified the token and confirmed the
	// account is live; just echo the identity back.
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	username, _ := auth.GetUsername(r)
	role, _ := auth.GetRole(r)

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user_id":       userID,
		"username":      username,
		"role":          role,
	})
}
