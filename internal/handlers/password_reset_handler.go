package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/service"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// PasswordResetHandler handles the forgot-password and reset-password routes.
type PasswordResetHandler struct {
	authService *service.AuthService
}

// NewPasswordResetHandler creates a new PasswordResetHandler.
func NewPasswordResetHandler(authService *service.AuthService) *PasswordResetHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	return &PasswordResetHandler{
		authService: authService,
	}
}

// ForgotPassword handles the request to initiate a password reset.
// The response is byte-identical for registered and unregistered emails.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		// Infrastructure failures are logged, not surfaced: an error
		// response here would reveal that the email is registered.
		log.Error().Err(err).Msg("Password reset request failed")
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": constants.MsgResetRequested,
	})
}

// ResetPassword handles the request to reset a password using a token.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset successfully.",
	})
}
