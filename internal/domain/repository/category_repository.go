// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// Domain-specific errors for category persistence.
var (
	// ErrCategoryNotFound is returned when an active category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryNameConflict is returned when an active category already uses the name.
	ErrCategoryNameConflict = errors.New("category name already in use")
)

// CategoryRepository defines the standard operations for category persistence.
// All read operations only see active categories.
type CategoryRepository interface {
	// ListActive retrieves every active category.
	ListActive(ctx context.Context) ([]*entity.Category, error)

	// FindByID retrieves a single active category by its unique ID.
	FindByID(ctx context.Context, id int64) (*entity.Category, error)

	// FindByName retrieves a single active category by its name.
	FindByName(ctx context.Context, name string) (*entity.Category, error)

	// Create persists a new category entity to the storage.
	Create(ctx context.Context, category *entity.Category) error

	// Update modifies an existing category entity in the storage.
	Update(ctx context.Context, category *entity.Category) error

	// SoftDelete marks the category as inactive without removing the row.
	SoftDelete(ctx context.Context, id int64) error
}
