package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/rudoxe/Tunegie-sub001/internal/config"
	"github.com/rudoxe/Tunegie-sub001/internal/constants"
	"github.com/rudoxe/Tunegie-sub001/internal/utils"
)

// JWT errors
var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrInvalidTokenClaims   = errors.New("invalid token claims")
)

// CustomClaims represents the claims in a JWT token
type CustomClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService provides JWT token generation and validation functionality
type JWTService struct {
	Config *config.JWTSettings
}

// NewJWTService creates a new JWTService instance
func NewJWTService(config *config.JWTSettings) *JWTService {
	return &JWTService{
		Config: config,
	}
}

func (s *JWTService) GetConfig() *config.JWTSettings {
	if s.Config == nil {
		return &config.JWTSettings{
			Expiry: constants.DefaultJWTExpiry,
			Issuer: constants.DefaultJWTIssuer,
		}
	}
	return s.Config
}

// GenerateToken generates a new signed access token for a user.
// It returns the token string and the unique JWT ID.
func (s *JWTService) GenerateToken(userID int64, username, role string) (string, string, error) {
	// Generate a unique token ID
	jwtID := uuid.New().String()

	// Create claims with user information and expiry time
	now := time.Now()
	claims := CustomClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.GetConfig().Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.GetConfig().Expiry)),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jwtID,
		},
	}

	// Create the token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Sign the token with the secret key
	tokenString, err := token.SignedString([]byte(s.GetConfig().Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, jwtID, nil
}

// ValidateToken validates a JWT token and returns its claims if valid
func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	// Parse the token
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.GetConfig().Secret), nil
	})

	// Handle parsing errors
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	// Check if the token is valid
	if !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	// Extract and validate the claims
	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// ExtractUserIDFromToken extracts the user ID from a token string
func (s *JWTService) ExtractUserIDFromToken(tokenString string) (int64, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
