// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"math"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the domain.ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
// It returns the repository as a domain.ReviewRepository interface, adhering to dependency inversion.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// ListActive retrieves every active review.
func (repo *reviewRepository) ListActive(ctx context.Context) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&reviewModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// FindByID retrieves a single active review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id int64) (*entity.Review, error) {
	var reviewM model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&reviewM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByProduct retrieves the active reviews written for a product.
func (repo *reviewRepository) FindByProduct(ctx context.Context, productID int64) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("id").
		Find(&reviewModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find reviews by product")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// FindActiveByUserAndProduct retrieves the active review a user wrote for a product.
func (repo *reviewRepository) FindActiveByUserAndProduct(ctx context.Context, userID, productID int64) (*entity.Review, error) {
	var reviewM model.ReviewModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND is_active = ?", userID, productID, true).
		First(&reviewM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by user and product")
	}

	return toReviewDomain(&reviewM), nil
}

// Create persists a new review entity to the database.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrReviewConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrReviewNotFound
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("grade out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	// Update the entity with generated values
	review.ID = reviewM.ID
	review.CommentDate = reviewM.CommentDate

	return nil
}

// Update modifies an existing review entity in the database.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ? AND is_active = ?", review.ID, true).
		Updates(map[string]any{
			"product_id": reviewM.ProductID,
			"comment":    reviewM.Comment,
			"grade":      reviewM.Grade,
		})
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrReviewConflict
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("grade out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// SoftDelete marks the review as inactive without removing the row.
func (repo *reviewRepository) SoftDelete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// RecomputeProductRating recalculates the product's rating as the average grade
// over its active reviews, rounded to two decimal places. A product without
// active reviews gets a rating of zero.
func (repo *reviewRepository) RecomputeProductRating(ctx context.Context, productID int64) (float64, error) {
	var avg *float64
	err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("AVG(grade)").
		Where("product_id = ? AND is_active = ?", productID, true).
		Scan(&avg).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to average review grades")
	}

	rating := 0.0
	if avg != nil {
		rating = math.Round(*avg*100) / 100
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", productID).
		Update("rating", rating)
	if err := result.Error; err != nil {
		return 0, errors.Wrap(err, "failed to store product rating")
	}
	if result.RowsAffected == 0 {
		return 0, repository.ErrProductNotFound
	}

	return rating, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:          data.ID,
		UserID:      data.UserID,
		ProductID:   data.ProductID,
		Comment:     data.Comment,
		CommentDate: data.CommentDate,
		Grade:       data.Grade,
		IsActive:    data.IsActive,
	}
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel for persistence.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:          data.ID,
		UserID:      data.UserID,
		ProductID:   data.ProductID,
		Comment:     data.Comment,
		CommentDate: data.CommentDate,
		Grade:       data.Grade,
		IsActive:    data.IsActive,
	}
}
