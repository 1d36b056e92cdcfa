// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new user.
type RegisterUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer seller admin"`
}

// UpdateUserInput defines the partial data for modifying a user.
// Nil fields are left untouched.
type UpdateUserInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=buyer seller admin"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries the raw refresh token presented by a client.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// --- Output DTOs ---

// RefreshTokenRecord mirrors the persisted refresh session returned to clients.
type RefreshTokenRecord struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenGroup bundles a fresh access token with its refresh session.
type TokenGroup struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken RefreshTokenRecord `json:"refresh_token"`
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// ListUsers returns every active user.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// GetUser returns a single active user by ID.
	GetUser(ctx context.Context, id int64) (*entity.User, error)

	// GetUserByEmail returns a single active user by email.
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// Register creates a new user account with a hashed password.
	Register(ctx context.Context, input RegisterUserInput) (*entity.User, error)

	// UpdateUser partially modifies a user. Only the user themself or an
	// admin may update the account.
	UpdateUser(ctx context.Context, actor Actor, id int64, input UpdateUserInput) (*entity.User, error)

	// DeleteUser soft-deletes a user account and revokes their sessions.
	// Only the user themself or an admin may delete the account.
	DeleteUser(ctx context.Context, actor Actor, id int64) error

	// Login verifies credentials and issues an access and refresh token pair.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, input RefreshInput) (*TokenGroup, error)

	// Logout revokes the presented refresh token.
	Logout(ctx context.Context, input RefreshInput) error
}
