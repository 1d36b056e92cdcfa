// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// categoryService implements the CategoryUsecase interface.
type categoryService struct {
	txManager    repository.TransactionManager
	categoryRepo repository.CategoryRepository
	logger       *slog.Logger
}

// CategoryServiceParams holds dependencies for categoryService, injected by Fx.
type CategoryServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	Logger       *slog.Logger
}

// NewCategoryService is the constructor for categoryService. It receives all dependencies as interfaces.
func NewCategoryService(params CategoryServiceParams) usecase.CategoryUsecase {
	return &categoryService{
		txManager:    params.TxManager,
		categoryRepo: params.CategoryRepo,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *categoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListCategories returns every active category.
func (srv *categoryService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	categories, err := srv.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	return categories, nil
}

// GetCategory returns a single active category by ID.
func (srv *categoryService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to get category")
	}

	return category, nil
}

// CreateCategory creates a new category after checking name uniqueness and parent existence.
func (srv *categoryService) CreateCategory(ctx context.Context, input usecase.CategoryInput) (*entity.Category, error) {
	srv.log(ctx).Info("Creating category", slog.String("name", input.Name))

	var created *entity.Category
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.NewCategoryRepository()

		parentID, err := srv.resolveParent(ctx, categoryRepo, input.ParentID)
		if err != nil {
			return err
		}

		if err := srv.checkNameAvailable(ctx, categoryRepo, input.Name); err != nil {
			return err
		}

		category := &entity.Category{
			Name:     input.Name,
			ParentID: parentID,
			IsActive: true,
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			if errors.Is(err, repository.ErrCategoryNameConflict) {
				return domainerrors.ErrCategoryNameTaken
			}

			return errors.Wrap(err, "failed to create category")
		}

		created = category

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create category", slog.String("name", input.Name), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Category created", slog.Int64("categoryID", created.ID))

	return created, nil
}

// UpdateCategory modifies an existing category. The name uniqueness check only
// runs when the name actually changes.
func (srv *categoryService) UpdateCategory(ctx context.Context, id int64, input usecase.CategoryInput) (*entity.Category, error) {
	srv.log(ctx).Info("Updating category", slog.Int64("categoryID", id))

	var updated *entity.Category
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.NewCategoryRepository()

		existing, err := categoryRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to load category for update")
		}

		if input.Name != existing.Name {
			if err := srv.checkNameAvailable(ctx, categoryRepo, input.Name); err != nil {
				return err
			}
		}

		existing.Name = input.Name
		existing.ParentID = normalizeParentID(input.ParentID)

		if err := categoryRepo.Update(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrCategoryNameConflict) {
				return domainerrors.ErrCategoryNameTaken
			}
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to update category")
		}

		updated = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update category", slog.Int64("categoryID", id), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// DeleteCategory soft-deletes a category.
func (srv *categoryService) DeleteCategory(ctx context.Context, id int64) error {
	srv.log(ctx).Info("Deleting category", slog.Int64("categoryID", id))

	if err := srv.categoryRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return domainerrors.ErrCategoryNotFound
		}

		return errors.Wrap(err, "failed to delete category")
	}

	return nil
}

// resolveParent validates the parent reference and converts the zero value to
// a nil parent.
func (srv *categoryService) resolveParent(ctx context.Context, categoryRepo repository.CategoryRepository, parentID int64) (*int64, error) {
	if parentID == 0 {
		return nil, nil
	}

	if _, err := categoryRepo.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, domainerrors.ErrCategoryNotFound.WrapMessage("parent category not found")
		}

		return nil, errors.Wrap(err, "failed to load parent category")
	}

	return &parentID, nil
}

// checkNameAvailable returns a conflict error when an active category already
// uses the name.
func (srv *categoryService) checkNameAvailable(ctx context.Context, categoryRepo repository.CategoryRepository, name string) error {
	_, err := categoryRepo.FindByName(ctx, name)
	if err == nil {
		return domainerrors.ErrCategoryNameTaken
	}
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		return errors.Wrap(err, "failed to check category name")
	}

	return nil
}

func normalizeParentID(parentID int64) *int64 {
	if parentID == 0 {
		return nil
	}

	return &parentID
}
