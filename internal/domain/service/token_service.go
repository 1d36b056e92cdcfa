package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for the JWT tokens.
// The registered Subject claim carries the user's email.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateAccessToken creates a short-lived access token for a given user.
	GenerateAccessToken(email string, userID int64, role string) (string, error)

	// GenerateRefreshToken creates a long-lived refresh token for a given user.
	GenerateRefreshToken(email string, userID int64, role string) (string, error)

	// ValidateAccessToken checks the validity of an access token string.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken checks the validity of a refresh token string.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the hex-encoded SHA-256 digest of a raw token,
	// suitable for storage and lookup.
	HashToken(rawToken string) string

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
