package service

import (
	"context"
	"testing"

	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

func seedTestUser(t *testing.T, userRepo *MockUserRepository, username, email string) *models.User {
	t.Helper()

	user := models.NewUser(username, email)
	user.PasswordHash = "hashed_password"
	if err := userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestUserService_GetUserByID(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	created := seedTestUser(t, userRepo, "testuser", "test@example.com")

	user, err := service.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}

	if user.Username != "testuser" {
		t.Errorf("Expected username = testuser, got %s", user.Username)
	}

	if user.PasswordHash != "" {
		t.Error("Returned user must not expose the password hash")
	}

	// Unknown ID
	if _, err := service.GetUserByID(context.Background(), 999); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	created := seedTestUser(t, userRepo, "testuser", "test@example.com")

	// Update both fields
	updated, err := service.UpdateProfile(context.Background(), created.ID, &models.UserUpdate{
		Username: "newname",
		Email:    "new@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	if updated.Username != "newname" {
		t.Errorf("Expected username = newname, got %s", updated.Username)
	}
	if updated.Email != "new@example.com" {
		t.Errorf("Expected email = new@example.com, got %s", updated.Email)
	}

	// Empty update fields leave the profile unchanged
	unchanged, err := service.UpdateProfile(context.Background(), created.ID, &models.UserUpdate{})
	if err != nil {
		t.Fatalf("UpdateProfile() with empty update error = %v", err)
	}
	if unchanged.Username != "newname" || unchanged.Email != "new@example.com" {
		t.Error("Expected empty update to leave the profile unchanged")
	}
}

func TestUserService_UpdateProfile_Conflicts(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	first := seedTestUser(t, userRepo, "firstuser", "first@example.com")
	seedTestUser(t, userRepo, "seconduser", "second@example.com")

	// Taking another user's username fails
	_, err := service.UpdateProfile(context.Background(), first.ID, &models.UserUpdate{Username: "seconduser"})
	if !utils.IsDuplicateError(err) {
		t.Errorf("Expected duplicate error for username conflict, got %v", err)
	}

	// Taking another user's email fails
	_, err = service.UpdateProfile(context.Background(), first.ID, &models.UserUpdate{Email: "second@example.com"})
	if !utils.IsDuplicateError(err) {
		t.Errorf("Expected duplicate error for email conflict, got %v", err)
	}

	// An invalid username fails validation
	_, err = service.UpdateProfile(context.Background(), first.ID, &models.UserUpdate{Username: "no spaces"})
	if !utils.IsValidationError(err) {
		t.Errorf("Expected validation error for invalid username, got %v", err)
	}

	// Unknown user
	_, err = service.UpdateProfile(context.Background(), 999, &models.UserUpdate{Username: "whoever"})
	if !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	created := seedTestUser(t, userRepo, "testuser", "test@example.com")

	if err := service.DeleteUser(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if _, err := service.GetUserByID(context.Background(), created.ID); !utils.IsNotFoundError(err) {
		t.Errorf("Expected deleted user to be gone, got %v", err)
	}

	// Deleting again fails
	if err := service.DeleteUser(context.Background(), created.ID); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error on double delete, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	seedTestUser(t, userRepo, "alice", "alice@example.com")
	seedTestUser(t, userRepo, "bob", "bob@example.com")

	users, err := service.ListUsers(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(users))
	}

	for _, user := range users {
		if user.PasswordHash != "" {
			t.Error("Listed users must not expose password hashes")
		}
	}
}

func TestUserService_SetUserRole(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	created := seedTestUser(t, userRepo, "testuser", "test@example.com")

	if err := service.SetUserRole(context.Background(), created.ID, "admin"); err != nil {
		t.Fatalf("SetUserRole() error = %v", err)
	}

	if userRepo.users[created.ID].Role != "admin" {
		t.Errorf("Expected role = admin, got %s", userRepo.users[created.ID].Role)
	}

	// Unknown roles are rejected before touching the repository
	err := service.SetUserRole(context.Background(), created.ID, "superuser")
	if !utils.IsValidationError(err) {
		t.Errorf("Expected validation error for unknown role, got %v", err)
	}
}

func TestUserService_SetUserActive(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	created := seedTestUser(t, userRepo, "testuser", "test@example.com")

	if err := service.SetUserActive(context.Background(), created.ID, false); err != nil {
		t.Fatalf("SetUserActive() error = %v", err)
	}

	if userRepo.users[created.ID].IsActive {
		t.Error("Expected user to be deactivated")
	}

	if err := service.SetUserActive(context.Background(), created.ID, true); err != nil {
		t.Fatalf("SetUserActive() error = %v", err)
	}

	if !userRepo.users[created.ID].IsActive {
		t.Error("Expected user to be reactivated")
	}
}

func TestUserService_CheckUsername(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	seedTestUser(t, userRepo, "taken", "taken@example.com")

	available, err := service.CheckUsername(context.Background(), "taken")
	if err != nil {
		t.Fatalf("CheckUsername() error = %v", err)
	}
	if available {
		t.Error("Expected taken username to be unavailable")
	}

	available, err = service.CheckUsername(context.Background(), "free")
	if err != nil {
		t.Fatalf("CheckUsername() error = %v", err)
	}
	if !available {
		t.Error("Expected free username to be available")
	}
}

func TestUserService_CheckEmail(t *testing.T) {
	userRepo := NewMockUserRepository()
	service := NewUserService(userRepo)

	seedTestUser(t, userRepo, "taken", "taken@example.com")

	available, err := service.CheckEmail(context.Background(), "taken@example.com")
	if err != nil {
		t.Fatalf("CheckEmail() error = %v", err)
	}
	if available {
		t.Error("Expected taken email to be unavailable")
	}

	available, err = service.CheckEmail(context.Background(), "free@example.com")
	if err != nil {
		t.Fatalf("CheckEmail() error = %v", err)
	}
	if !available {
		t.Error("Expected free email to be available")
	}
}
