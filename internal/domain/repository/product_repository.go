// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when an active product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNameConflict is returned when an active product already uses the name.
	ErrProductNameConflict = errors.New("product name already in use")
)

// ProductRepository defines the standard operations for product persistence.
// All read operations only see active products.
type ProductRepository interface {
	// ListActive retrieves every active product.
	ListActive(ctx context.Context) ([]*entity.Product, error)

	// FindByID retrieves a single active product by its unique ID.
	FindByID(ctx context.Context, id int64) (*entity.Product, error)

	// FindByName retrieves a single active product by its name.
	FindByName(ctx context.Context, name string) (*entity.Product, error)

	// FindByCategory retrieves the active products belonging to a category.
	FindByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error)

	// Create persists a new product entity to the storage.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product entity in the storage.
	Update(ctx context.Context, product *entity.Product) error

	// SoftDelete marks the product as inactive without removing the row.
	SoftDelete(ctx context.Context, id int64) error
}
