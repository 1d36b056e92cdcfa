// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// ProductInput defines the data required to create or update a product.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=200"`
	Stock       int      `json:"stock" validate:"gte=0"`
	CategoryID  int64    `json:"category_id" validate:"gte=0"`
}

// ProductUsecase defines the interface for product-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type ProductUsecase interface {
	// ListProducts returns every active product.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// GetProduct returns a single active product by ID.
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)

	// GetProductsByCategory returns the active products of a category.
	// An unknown category or a category without products is a not-found error.
	GetProductsByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error)

	// CreateProduct creates a new product owned by the acting user.
	// The actor must exist and hold a role allowed to sell.
	CreateProduct(ctx context.Context, actor Actor, input ProductInput) (*entity.Product, error)

	// UpdateProduct modifies an existing product. Only the owning seller or an
	// admin may update it.
	UpdateProduct(ctx context.Context, actor Actor, id int64, input ProductInput) (*entity.Product, error)

	// DeleteProduct soft-deletes a product. Only the owning seller or an
	// admin may delete it.
	DeleteProduct(ctx context.Context, actor Actor, id int64) error
}
