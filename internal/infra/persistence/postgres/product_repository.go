// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// productRepository implements the domain.ProductRepository interface using GORM.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
// It returns the repository as a domain.ProductRepository interface, adhering to dependency inversion.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

// ListActive retrieves every active product.
func (repo *productRepository) ListActive(ctx context.Context) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&productModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// FindByID retrieves a single active product by its unique ID.
func (repo *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&productM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by id")
	}

	return toProductDomain(&productM), nil
}

// FindByName retrieves a single active product by its name.
func (repo *productRepository) FindByName(ctx context.Context, name string) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&productM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by name")
	}

	return toProductDomain(&productM), nil
}

// FindByCategory retrieves the active products belonging to a category.
func (repo *productRepository) FindByCategory(ctx context.Context, categoryID int64) ([]*entity.Product, error) {
	var productModels []*model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("id").
		Find(&productModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find products by category")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// Create persists a new product entity to the database.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrProductNameConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	// Update the entity with the generated ID
	product.ID = productM.ID

	return nil
}

// Update modifies an existing product entity in the database.
// Rating is intentionally excluded, it only changes through review recomputation.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND is_active = ?", product.ID, true).
		Updates(map[string]any{
			"name":        productM.Name,
			"description": productM.Description,
			"price":       productM.Price,
			"image_url":   productM.ImageURL,
			"stock":       productM.Stock,
			"category_id": productM.CategoryID,
		})
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrProductNameConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// SoftDelete marks the product as inactive without removing the row.
func (repo *productRepository) SoftDelete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		ImageURL:    data.ImageURL,
		Stock:       data.Stock,
		CategoryID:  data.CategoryID,
		Rating:      data.Rating,
		SellerID:    data.SellerID,
		IsActive:    data.IsActive,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel for persistence.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		Price:       data.Price,
		ImageURL:    data.ImageURL,
		Stock:       data.Stock,
		CategoryID:  data.CategoryID,
		Rating:      data.Rating,
		SellerID:    data.SellerID,
		IsActive:    data.IsActive,
	}
}
