package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

func TestNewJWTService(t *testing.T) {
	// Create config
	cfg := &config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "test-issuer",
	}

	// Create service
	service := auth.NewJWTService(cfg)

	// Check if service is created
	if service == nil {
		t.Fatal("Expected service to be created, got nil")
	}

	// Check if config is set
	if service.Config != cfg {
		t.Errorf("Expected Config to be %v, got %v", cfg, service.Config)
	}
}

func TestGetConfig(t *testing.T) {
	// Test with nil config (should use defaults)
	service := &auth.JWTService{Config: nil}
	cfg := service.GetConfig()

	if cfg == nil {
		t.Fatal("Expected default config, got nil")
	}

	// Check default values
	if cfg.Expiry != 24*time.Hour {
		t.Errorf("Expected default Expiry to be 24h, got %v", cfg.Expiry)
	}

	if cfg.Issuer != "tunegie-api" {
		t.Errorf("Expected default Issuer to be 'tunegie-api', got %v", cfg.Issuer)
	}

	// Test with provided config
	providedCfg := &config.JWTSettings{
		Secret: "test-secret",
		Expiry: 30 * time.Minute,
		Issuer: "test-issuer",
	}

	service = &auth.JWTService{Config: providedCfg}
	cfg = service.GetConfig()

	if cfg != providedCfg {
		t.Errorf("Expected provided config %v, got %v", providedCfg, cfg)
	}
}

func TestGenerateToken(t *testing.T) {
	// Create config
	cfg := &config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "test-issuer",
	}

	// Create service
	service := auth.NewJWTService(cfg)

	// Generate token
	userID := int64(123)
	username := "testuser"
	role := "user"

	token, jwtID, err := service.GenerateToken(userID, username, role)

	// Check for errors
	if err != nil {
		t.Errorf("GenerateToken() error = %v", err)
		return
	}

	// Check token is not empty
	if token == "" {
		t.Error("Expected non-empty token")
	}

	// Check JWT ID is not empty
	if jwtID == "" {
		t.Error("Expected non-empty JWT ID")
	}

	// Validate the token
	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Errorf("ValidateToken() error = %v", err)
		return
	}

	// Check claims
	if claims.UserID != userID {
		t.Errorf("Expected UserID %d, got %d", userID, claims.UserID)
	}

	if claims.Username != username {
		t.Errorf("Expected Username %s, got %s", username, claims.Username)
	}

	if claims.Role != role {
		t.Errorf("Expected Role %s, got %s", role, claims.Role)
	}

	if claims.Issuer != cfg.Issuer {
		t.Errorf("Expected Issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	if claims.Subject != "123" {
		t.Errorf("Expected Subject '123', got %s", claims.Subject)
	}

	if claims.ID != jwtID {
		t.Errorf("Expected token ID %s, got %s", jwtID, claims.ID)
	}

	// Check expiry time
	if claims.ExpiresAt == nil {
		t.Error("ExpiresAt should not be nil")
	} else {
		expectedExpiry := time.Now().Add(cfg.Expiry).Unix()
		// Allow 5 seconds tolerance for test execution time
		if claims.ExpiresAt.Unix() < expectedExpiry-5 || claims.ExpiresAt.Unix() > expectedExpiry+5 {
			t.Errorf("ExpiresAt not within expected range: got %v, want ~%v",
				claims.ExpiresAt.Unix(), expectedExpiry)
		}
	}
}

func TestValidateToken(t *testing.T) {
	// Create config
	cfg := &config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "test-issuer",
	}

	// Create service
	service := auth.NewJWTService(cfg)

	// Generate valid token
	validToken, _, err := service.GenerateToken(123, "testuser", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	// Generate expired token
	expiredClaims := auth.CustomClaims{
		UserID:   456,
		Username: "expireduser",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			Issuer:    cfg.Issuer,
			Subject:   "456",
			ID:        "expired-id",
		},
	}

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims)
	expiredTokenString, err := expiredToken.SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("Failed to generate expired test token: %v", err)
	}

	// Generate token signed with the wrong secret
	wrongKeyService := auth.NewJWTService(&config.JWTSettings{
		Secret: "different-secret",
		Expiry: 15 * time.Minute,
		Issuer: cfg.Issuer,
	})
	wrongKeyToken, _, err := wrongKeyService.GenerateToken(789, "wrongkey", "user")
	if err != nil {
		t.Fatalf("Failed to generate wrong key test token: %v", err)
	}

	// Test cases
	tests := []struct {
		name        string
		token       string
		shouldError bool
		errorType   error
	}{
		{
			name:        "Valid token",
			token:       validToken,
			shouldError: false,
		},
		{
			name:        "Expired token",
			token:       expiredTokenString,
			shouldError: true,
			errorType:   utils.ErrExpiredToken,
		},
		{
			name:        "Wrong signing key",
			token:       wrongKeyToken,
			shouldError: true,
			errorType:   utils.ErrInvalidToken,
		},
		{
			name:        "Invalid token format",
			token:       "not-a-valid-token",
			shouldError: true,
			errorType:   utils.ErrInvalidToken,
		},
		{
			name:        "Empty token",
			token:       "",
			shouldError: true,
			errorType:   utils.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validate the token
			claims, err := service.ValidateToken(tt.token)

			// Check error
			if (err != nil) != tt.shouldError {
				t.Errorf("ValidateToken() error = %v, shouldError %v", err, tt.shouldError)
				return
			}

			// If expected error, check error type
			if tt.shouldError && err != nil && tt.errorType != nil {
				var appErr *utils.AppError
				if errors.As(err, &appErr) {
					if !errors.Is(appErr.Unwrap(), tt.errorType) {
						t.Errorf("ValidateToken() error type = %v, want %v", appErr.Unwrap(), tt.errorType)
					}
				} else {
					t.Errorf("Expected AppError, got %T", err)
				}
				return
			}

			// If no error, check claims
			if !tt.shouldError && claims == nil {
				t.Error("Expected non-nil claims")
			}
		})
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	// Create config
	cfg := &config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "test-issuer",
	}

	// Create service
	service := auth.NewJWTService(cfg)

	// Generate token
	expectedUserID := int64(123)
	token, _, err := service.GenerateToken(expectedUserID, "testuser", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	// Extract user ID
	userID, err := service.ExtractUserIDFromToken(token)

	// Check error
	if err != nil {
		t.Errorf("ExtractUserIDFromToken() error = %v", err)
		return
	}

	// Check user ID
	if userID != expectedUserID {
		t.Errorf("ExtractUserIDFromToken() userID = %v, want %v", userID, expectedUserID)
	}

	// Test invalid token
	_, err = service.ExtractUserIDFromToken("not-a-valid-token")
	if err == nil {
		t.Error("ExtractUserIDFromToken() should error with invalid token")
	}
}
