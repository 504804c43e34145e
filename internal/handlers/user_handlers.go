package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/service"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// UserHandler handles profile and administrative user routes
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's username and/or email
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	var update models.UserUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &update)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// DeleteAccount deletes the authenticated user's own account
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Account successfully deleted",
	})
}

// CheckUsername checks if a username is available
func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get(constants.QueryParamUsername)
	if username == "" {
		utils.BadRequest(w, "username query parameter is required", nil)
		return
	}

	available, err := h.userService.CheckUsername(r.Context(), username)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"username":  username,
		"available": available,
	})
}

// CheckEmail checks if an email is available
func (h *UserHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get(constants.QueryParamEmail)
	if email == "" {
		utils.BadRequest(w, "email query parameter is required", nil)
		return
	}

	if !utils.IsValidEmail(email) {
		utils.BadRequest(w, "email query parameter must be a valid email address", nil)
		return
	}

	available, err := h.userService.CheckEmail(r.Context(), email)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"email":     email,
		"available": available,
	})
}

// ListUsers returns a page of users for administrators
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.userService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// GetUser returns a single user by ID for administrators
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.userIDParam(r)
	if err != nil {
		utils.BadRequest(w, "userID parameter must be an integer", nil)
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// SetUserRole changes a user's role
func (h *UserHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := h.userIDParam(r)
	if err != nil {
		utils.BadRequest(w, "userID parameter must be an integer", nil)
		return
	}

	var update models.RoleUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.userService.SetUserRole(r.Context(), id, update.Role); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user_id": id,
		"role":    update.Role,
	})
}

// SetUserActive activates or deactivates a user account
func (h *UserHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := h.userIDParam(r)
	if err != nil {
		utils.BadRequest(w, "userID parameter must be an integer", nil)
		return
	}

	var update models.ActiveUpdate
	if err := utils.DecodeAndValidate(r, &update); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	if err := h.userService.SetUserActive(r.Context(), id, *update.IsActive); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":   id,
		"is_active": *update.IsActive,
	})
}

// DeleteUser removes a user account by ID for administrators
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.userIDParam(r)
	if err != nil {
		utils.BadRequest(w, "userID parameter must be an integer", nil)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User successfully deleted",
	})
}

// userIDParam parses the userID URL parameter.
func (h *UserHandler) userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, constants.ParamUserID), 10, 64)
}
