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

// productService implements the ProductUsecase interface.
type productService struct {
	txManager    repository.TransactionManager
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	logger       *slog.Logger
}

// ProductServiceParams holds dependencies for productService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	UserRepo     repository.UserRepository
	Logger       *slog.Logger
}

// NewProductService is the constructor for productService. It receives all dependencies as interfaces.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:    params.TxManager,
		productRepo:  params.ProductRepo,
		categoryRepo: params.CategoryRepo,
		userRepo:     params.UserRepo,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns every active product.
func (srv *productService) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	products, err := srv.productRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns a single active product by ID.
func (srv *productService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to get product")
	}

	return product, nil
}

// GetProductsByCategory returns the active products of a category.
// A category without active products is reported as not found.
func (srv *productService) GetProductsByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error) {
	products, err := srv.productRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get products by category")
	}
	if len(products) == 0 {
		return nil, domainerrors.ErrProductNotFound.WrapMessage("no products in this category")
	}

	return products, nil
}

// CreateProduct creates a new product owned by the acting user.
func (srv *productService) CreateProduct(ctx context.Context, actor usecase.Actor, input usecase.ProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Creating product", slog.String("name", input.Name), slog.String("email", actor.Email))

	var created *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		categoryRepo := repoFactory.NewCategoryRepository()
		userRepo := repoFactory.NewUserRepository()

		// A name collision wins over every other failure.
		if err := srv.checkNameAvailable(ctx, productRepo, input.Name); err != nil {
			return err
		}

		if input.CategoryID == 0 {
			return domainerrors.ErrProductCategoryRequired
		}
		if _, err := categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to load category for product")
		}

		seller, err := userRepo.FindByEmail(ctx, actor.Email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load seller")
		}
		if !seller.Role.CanSell() {
			return domainerrors.ErrRoleNotAllowed
		}

		product := &entity.Product{
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			ImageURL:    input.ImageURL,
			Stock:       input.Stock,
			CategoryID:  input.CategoryID,
			SellerID:    seller.ID,
			IsActive:    true,
		}
		if err := productRepo.Create(ctx, product); err != nil {
			if errors.Is(err, repository.ErrProductNameConflict) {
				return domainerrors.ErrProductNameTaken
			}

			return errors.Wrap(err, "failed to create product")
		}

		created = product

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("name", input.Name), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Product created", slog.Int64("productID", created.ID))

	return created, nil
}

// UpdateProduct modifies an existing product. Only the owning seller or an admin may update it.
func (srv *productService) UpdateProduct(ctx context.Context, actor usecase.Actor, id int64, input usecase.ProductInput) (*entity.Product, error) {
	srv.log(ctx).Info("Updating product", slog.Int64("productID", id), slog.Int64("userID", actor.UserID))

	if input.CategoryID == 0 {
		return nil, domainerrors.ErrProductCategoryRequired
	}

	var updated *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()
		categoryRepo := repoFactory.NewCategoryRepository()

		existing, err := productRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to load product for update")
		}

		if err := authorizeProductChange(actor, existing); err != nil {
			return err
		}

		if _, err := categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return domainerrors.ErrCategoryNotFound
			}

			return errors.Wrap(err, "failed to load category for product")
		}

		if input.Name != existing.Name {
			if err := srv.checkNameAvailable(ctx, productRepo, input.Name); err != nil {
				return err
			}
		}

		existing.Name = input.Name
		existing.Description = input.Description
		existing.Price = input.Price
		existing.ImageURL = input.ImageURL
		existing.Stock = input.Stock
		existing.CategoryID = input.CategoryID

		if err := productRepo.Update(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrProductNameConflict) {
				return domainerrors.ErrProductNameTaken
			}
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductNotFound
			}

			return errors.Wrap(err, "failed to update product")
		}

		updated = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Int64("productID", id), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// DeleteProduct soft-deletes a product. Only the owning seller or an admin may delete it.
func (srv *productService) DeleteProduct(ctx context.Context, actor usecase.Actor, id int64) error {
	srv.log(ctx).Info("Deleting product", slog.Int64("productID", id), slog.Int64("userID", actor.UserID))

	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to load product for delete")
	}

	if err := authorizeProductChange(actor, product); err != nil {
		return err
	}

	if err := srv.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domainerrors.ErrProductNotFound
		}

		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

// checkNameAvailable returns a conflict error when an active product already
// uses the name.
func (srv *productService) checkNameAvailable(ctx context.Context, productRepo repository.ProductRepository, name string) error {
	_, err := productRepo.FindByName(ctx, name)
	if err == nil {
		return domainerrors.ErrProductNameTaken
	}
	if !errors.Is(err, repository.ErrProductNotFound) {
		return errors.Wrap(err, "failed to check product name")
	}

	return nil
}

// authorizeProductChange allows the owning seller and admins to modify a product.
func authorizeProductChange(actor usecase.Actor, product *entity.Product) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	if product.SellerID == actor.UserID && actor.Role.CanSell() {
		return nil
	}

	return domainerrors.ErrActionNotAllowed
}
