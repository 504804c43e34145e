package service

import (
	"context"
	"fmt"

	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/repository"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// UserService handles profile and administrative user management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// UpdateProfile updates a user's username and/or email
func (s *UserService) UpdateProfile(ctx context.Context, id int64, update *models.UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Username != "" && update.Username != user.Username {
		if err := utils.ValidateUsername(update.Username); err != nil {
			return nil, err
		}
		exists, err := s.userRepo.ExistsByUsername(ctx, update.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username existence: %w", err)
		}
		if exists {
			return nil, utils.NewDuplicateError(fmt.Sprintf("username %q already registered", update.Username))
		}
		user.Username = update.Username
	}

	if update.Email != "" && update.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, update.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email existence: %w", err)
		}
		if exists {
			return nil, utils.NewDuplicateError(fmt.Sprintf("email %s already registered", utils.MaskEmail(update.Email)))
		}
		user.Email = update.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.Sanitize(), nil
}

// DeleteUser removes a user account
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

// ListUsers retrieves a page of users for administration
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	sanitized := make([]*models.User, len(users))
	for i, user := range users {
		sanitized[i] = user.Sanitize()
	}
	return sanitized, nil
}

// SetUserRole changes a user's role
func (s *UserService) SetUserRole(ctx context.Context, id int64, role string) error {
	if role != constants.RoleUser && role != constants.RoleAdmin {
		return utils.NewValidationError("role", "Role must be one of: user, admin")
	}
	return s.userRepo.SetRole(ctx, id, role)
}

// SetUserActive activates or deactivates a user account.
// Deactivation takes effect immediately: outstanding tokens for the
// account stop passing the liveness check.
func (s *UserService) SetUserActive(ctx context.Context, id int64, active bool) error {
	return s.userRepo.SetActive(ctx, id, active)
}

// CheckUsername checks if a username is available
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CheckEmail checks if an email is available
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
