// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when an active review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrReviewConflict is returned when the author already has an active review for the product.
	ErrReviewConflict = errors.New("review already exists for this user and product")
)

// ReviewRepository defines the standard operations for review persistence.
// All read operations only see active reviews.
type ReviewRepository interface {
	// ListActive retrieves every active review.
	ListActive(ctx context.Context) ([]*entity.Review, error)

	// FindByID retrieves a single active review by its unique ID.
	FindByID(ctx context.Context, id int64) (*entity.Review, error)

	// FindByProduct retrieves the active reviews written for a product.
	FindByProduct(ctx context.Context, productID int64) ([]*entity.Review, error)

	// FindActiveByUserAndProduct retrieves the active review a user wrote for a product.
	FindActiveByUserAndProduct(ctx context.Context, userID, productID int64) (*entity.Review, error)

	// Create persists a new review entity to the storage.
	Create(ctx context.Context, review *entity.Review) error

	// Update modifies an existing review entity in the storage.
	Update(ctx context.Context, review *entity.Review) error

	// SoftDelete marks the review as inactive without removing the row.
	SoftDelete(ctx context.Context, id int64) error

	// RecomputeProductRating recalculates the product's rating as the average
	// grade over its active reviews, stores it and returns the new value.
	// A product without active reviews gets a rating of zero.
	RecomputeProductRating(ctx context.Context, productID int64) (float64, error)
}
