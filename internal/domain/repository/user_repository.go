// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when an active user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserEmailConflict is returned when an active user already uses the email.
	ErrUserEmailConflict = errors.New("email already registered")
)

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// ListActive retrieves every active user.
	ListActive(ctx context.Context) ([]*entity.User, error)

	// FindByID retrieves a single active user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single active user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// SoftDelete marks the user as inactive without removing the row.
	SoftDelete(ctx context.Context, id int64) error
}
