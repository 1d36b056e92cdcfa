// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// CreateReviewInput defines the data required to publish a review.
type CreateReviewInput struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
	Grade     int     `json:"grade" validate:"required,min=1,max=5"`
}

// UpdateReviewInput defines the data required to modify an existing review.
// Updates are full replaces, so the payload carries the product reference too.
type UpdateReviewInput struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Comment   *string `json:"comment" validate:"omitempty,max=2000"`
	Grade     int     `json:"grade" validate:"required,min=1,max=5"`
}

// ReviewUsecase defines the interface for review-related business operations.
// Every mutation also recomputes the reviewed product's derived rating inside
// the same transaction.
type ReviewUsecase interface {
	// ListReviews returns every active review.
	ListReviews(ctx context.Context) ([]*entity.Review, error)

	// GetReview returns a single active review by ID.
	GetReview(ctx context.Context, id int64) (*entity.Review, error)

	// GetReviewsByProduct returns the active reviews of a product. An
	// unknown product id yields an empty list, not an error.
	GetReviewsByProduct(ctx context.Context, productID int64) ([]*entity.Review, error)

	// CreateReview publishes a review for a product. The actor must exist,
	// hold an allowed role and not have an active review on the product yet.
	CreateReview(ctx context.Context, actor Actor, input CreateReviewInput) (*entity.Review, error)

	// UpdateReview modifies an existing review. Only the author or an admin
	// may update it.
	UpdateReview(ctx context.Context, actor Actor, id int64, input UpdateReviewInput) (*entity.Review, error)

	// DeleteReview soft-deletes a review. Only the author or an admin may
	// delete it.
	DeleteReview(ctx context.Context, actor Actor, id int64) error
}
