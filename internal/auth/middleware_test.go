package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rudoxe/Tunegie-sub001/internal/auth"
	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/models"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// fakeUserLookup is an in-memory UserAccountLookup for middleware tests.
type fakeUserLookup struct {
	users map[int64]*models.User
}

func (f *fakeUserLookup) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(&config.JWTSettings{
		Secret: "test-secret",
		Expiry: 15 * time.Minute,
		Issuer: "test-issuer",
	})
}

func TestJWTAuthProvider_Authenticate(t *testing.T) {
	jwtService := newTestJWTService()

	lookup := &fakeUserLookup{
		users: map[int64]*models.User{
			1: {ID: 1, Username: "alice", Role: "user", IsActive: true},
			2: {ID: 2, Username: "bob", Role: "admin", IsActive: false},
		},
	}

	provider := auth.NewJWTAuthProvider(jwtService, lookup)

	activeToken, _, err := jwtService.GenerateToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	inactiveToken, _, err := jwtService.GenerateToken(2, "bob", "admin")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	deletedToken, _, err := jwtService.GenerateToken(99, "ghost", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	tests := []struct {
		name        string
		authHeader  string
		shouldError bool
		wantUserID  int64
		wantRole    string
	}{
		{
			name:       "Valid token for active account",
			authHeader: "Bearer " + activeToken,
			wantUserID: 1,
			wantRole:   "user",
		},
		{
			name:        "Valid token for deactivated account",
			authHeader:  "Bearer " + inactiveToken,
			shouldError: true,
		},
		{
			name:        "Valid token for deleted account",
			authHeader:  "Bearer " + deletedToken,
			shouldError: true,
		},
		{
			name:        "Missing header",
			authHeader:  "",
			shouldError: true,
		},
		{
			name:        "Malformed header",
			authHeader:  "Token " + activeToken,
			shouldError: true,
		},
		{
			name:        "Garbage token",
			authHeader:  "Bearer not-a-token",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			userID, _, role, err := provider.Authenticate(req)

			if (err != nil) != tt.shouldError {
				t.Errorf("Authenticate() error = %v, shouldError %v", err, tt.shouldError)
				return
			}

			if !tt.shouldError {
				if userID != tt.wantUserID {
					t.Errorf("Authenticate() userID = %d, want %d", userID, tt.wantUserID)
				}
				if role != tt.wantRole {
					t.Errorf("Authenticate() role = %s, want %s", role, tt.wantRole)
				}
			}
		})
	}
}

func TestJWTAuthProvider_RoleFromLiveAccount(t *testing.T) {
	jwtService := newTestJWTService()

	// Token was minted while the account held the user role
	token, _, err := jwtService.GenerateToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	// The account has since been promoted
	lookup := &fakeUserLookup{
		users: map[int64]*models.User{
			1: {ID: 1, Username: "alice", Role: "admin", IsActive: true},
		},
	}

	provider := auth.NewJWTAuthProvider(jwtService, lookup)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	_, _, role, err := provider.Authenticate(req)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	// The live role wins over the token claim
	if role != "admin" {
		t.Errorf("Authenticate() role = %s, want admin", role)
	}
}

func TestRequireAuth(t *testing.T) {
	jwtService := newTestJWTService()
	lookup := &fakeUserLookup{
		users: map[int64]*models.User{
			1: {ID: 1, Username: "alice", Role: "user", IsActive: true},
		},
	}
	provider := auth.NewJWTAuthProvider(jwtService, lookup)

	token, _, err := jwtService.GenerateToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	// Handler that records the authenticated context values
	var gotUserID int64
	var gotUsername string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = auth.GetUserID(r)
		gotUsername, _ = auth.GetUsername(r)
		w.WriteHeader(http.StatusOK)
	})

	protected := auth.RequireAuth(provider)(handler)

	// Authenticated request
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protected.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if gotUserID != 1 {
		t.Errorf("Expected user ID 1 in context, got %d", gotUserID)
	}
	if gotUsername != "alice" {
		t.Errorf("Expected username 'alice' in context, got %s", gotUsername)
	}

	// Unauthenticated request
	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec = httptest.NewRecorder()

	protected.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := newTestJWTService()
	provider := auth.NewJWTAuthProvider(jwtService, nil)

	var authenticated bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authenticated = auth.IsAuthenticated(r)
		w.WriteHeader(http.StatusOK)
	})

	optional := auth.OptionalAuth(provider)(handler)

	// Without credentials the request still goes through
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	optional.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if authenticated {
		t.Error("Expected request to be unauthenticated")
	}

	// With credentials the context is populated
	token, _, err := jwtService.GenerateToken(1, "alice", "user")
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()

	optional.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if !authenticated {
		t.Error("Expected request to be authenticated")
	}
}
