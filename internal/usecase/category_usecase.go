// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// CategoryInput defines the data required to create or update a category.
// A zero ParentID means the category sits at the top level.
type CategoryInput struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	ParentID int64  `json:"parent_id" validate:"gte=0"`
}

// CategoryUsecase defines the interface for category-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type CategoryUsecase interface {
	// ListCategories returns every active category.
	ListCategories(ctx context.Context) ([]*entity.Category, error)

	// GetCategory returns a single active category by ID.
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)

	// CreateCategory creates a new category after checking name uniqueness
	// and parent existence.
	CreateCategory(ctx context.Context, input CategoryInput) (*entity.Category, error)

	// UpdateCategory modifies an existing category. The name uniqueness check
	// only runs when the name actually changes.
	UpdateCategory(ctx context.Context, id int64, input CategoryInput) (*entity.Category, error)

	// DeleteCategory soft-deletes a category.
	DeleteCategory(ctx context.Context, id int64) error
}
