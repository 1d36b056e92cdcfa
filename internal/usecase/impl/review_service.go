// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
// Every mutation recomputes the reviewed product's rating inside the same
// transaction, keeping the derived value consistent with the active reviews.
type reviewService struct {
	txManager  repository.TransactionManager
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	ReviewRepo repository.ReviewRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService. It receives all dependencies as interfaces.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:  params.TxManager,
		reviewRepo: params.ReviewRepo,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListReviews returns every active review.
func (srv *reviewService) ListReviews(ctx context.Context) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}

// GetReview returns a single active review by ID.
func (srv *reviewService) GetReview(ctx context.Context, id int64) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to get review")
	}

	return review, nil
}

// GetReviewsByProduct returns the active reviews of a product. An unknown
// product id yields an empty list rather than an error.
func (srv *reviewService) GetReviewsByProduct(ctx context.Context, productID int64) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reviews by product")
	}

	return reviews, nil
}

// CreateReview publishes a review and refreshes the product's rating.
func (srv *reviewService) CreateReview(ctx context.Context, actor usecase.Actor, input usecase.CreateReviewInput) (*entity.Review, error) {
	srv.log(ctx).Info("Creating review", slog.Int64("productID", input.ProductID), slog.Int64("userID", actor.UserID))

	var created *entity.Review
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()
		productRepo := repoFactory.NewProductRepository()
		userRepo := repoFactory.NewUserRepository()

		if _, err := productRepo.FindByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to load product for review")
		}

		author, err := userRepo.FindByEmail(ctx, actor.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load review author")
		}

		// Review publishing is currently restricted to seller and admin
		// accounts. TODO: confirm with the product owners whether buyers
		// should be allowed to review before relaxing this rule.
		if !author.Role.CanSell() {
			return domainerrors.ErrRoleNotAllowed
		}

		if _, err := reviewRepo.FindActiveByUserAndProduct(ctx, author.ID, input.ProductID); err == nil {
			return domainerrors.ErrDuplicateReview
		} else if !errors.Is(err, repository.ErrReviewNotFound) {
			return errors.Wrap(err, "failed to check for existing review")
		}

		review := &entity.Review{
			UserID:      author.ID,
			ProductID:   input.ProductID,
			Comment:     input.Comment,
			CommentDate: time.Now(),
			Grade:       input.Grade,
			IsActive:    true,
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrReviewConflict) {
				return domainerrors.ErrDuplicateReview
			}

			return errors.Wrap(err, "failed to create review")
		}

		if _, err := reviewRepo.RecomputeProductRating(ctx, input.ProductID); err != nil {
			return errors.Wrap(err, "failed to recompute product rating")
		}

		created = review

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create review", slog.Int64("productID", input.ProductID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Review created", slog.Int64("reviewID", created.ID))

	return created, nil
}

// UpdateReview modifies an existing review and refreshes the product's rating.
func (srv *reviewService) UpdateReview(ctx context.Context, actor usecase.Actor, id int64, input usecase.UpdateReviewInput) (*entity.Review, error) {
	srv.log(ctx).Info("Updating review", slog.Int64("reviewID", id), slog.Int64("userID", actor.UserID))

	var updated *entity.Review
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()
		productRepo := repoFactory.NewProductRepository()

		existing, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to load review for update")
		}

		if _, err := productRepo.FindByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to load product for review update")
		}

		if err := authorizeReviewChange(actor, existing); err != nil {
			return err
		}

		previousProductID := existing.ProductID
		existing.ProductID = input.ProductID
		existing.Comment = input.Comment
		existing.Grade = input.Grade

		if err := reviewRepo.Update(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}
			// Re-pointing can collide with the author's review of the target product.
			if errors.Is(err, repository.ErrReviewConflict) {
				return domainerrors.ErrDuplicateReview
			}

			return errors.Wrap(err, "failed to update review")
		}

		if _, err := reviewRepo.RecomputeProductRating(ctx, existing.ProductID); err != nil {
			return errors.Wrap(err, "failed to recompute product rating")
		}
		// A re-pointed review changes both aggregates.
		if previousProductID != existing.ProductID {
			if _, err := reviewRepo.RecomputeProductRating(ctx, previousProductID); err != nil {
				return errors.Wrap(err, "failed to recompute previous product rating")
			}
		}

		updated = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update review", slog.Int64("reviewID", id), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// DeleteReview soft-deletes a review and refreshes the product's rating.
func (srv *reviewService) DeleteReview(ctx context.Context, actor usecase.Actor, id int64) error {
	srv.log(ctx).Info("Deleting review", slog.Int64("reviewID", id), slog.Int64("userID", actor.UserID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.NewReviewRepository()

		existing, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to load review for delete")
		}

		if err := authorizeReviewChange(actor, existing); err != nil {
			return err
		}

		if err := reviewRepo.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to delete review")
		}

		if _, err := reviewRepo.RecomputeProductRating(ctx, existing.ProductID); err != nil {
			return errors.Wrap(err, "failed to recompute product rating")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete review", slog.Int64("reviewID", id), slog.Any("error", err))

		return err
	}

	return nil
}

// authorizeReviewChange allows the review's author and admins to modify it.
func authorizeReviewChange(actor usecase.Actor, review *entity.Review) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	if review.UserID == actor.UserID {
		return nil
	}

	return domainerrors.ErrActionNotAllowed
}
