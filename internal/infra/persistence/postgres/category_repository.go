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

// categoryRepository implements the domain.CategoryRepository interface using GORM.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
// It returns the repository as a domain.CategoryRepository interface, adhering to dependency inversion.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

// ListActive retrieves every active category.
func (repo *categoryRepository) ListActive(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel
	err := repo.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&categoryModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoryModels))
	for _, categoryM := range categoryModels {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories, nil
}

// FindByID retrieves a single active category by its unique ID.
func (repo *categoryRepository) FindByID(ctx context.Context, id int64) (*entity.Category, error) {
	var categoryM model.CategoryModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&categoryM).Error
	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by id")
	}

	return toCategoryDomain(&categoryM), nil
}

// FindByName retrieves a single active category by its name.
func (repo *categoryRepository) FindByName(ctx context.Context, name string) (*entity.Category, error) {
	var categoryM model.CategoryModel
	err := repo.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&categoryM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.Wrap(err, "failed to find category by name")
	}

	return toCategoryDomain(&categoryM), nil
}

// Create persists a new category entity to the database.
func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrCategoryNameConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	// Update the entity with the generated ID
	category.ID = categoryM.ID

	return nil
}

// Update modifies an existing category entity in the database.
func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ? AND is_active = ?", category.ID, true).
		Updates(map[string]any{
			"name":      categoryM.Name,
			"parent_id": categoryM.ParentID,
		})
	if err := result.Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrCategoryNameConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// SoftDelete marks the category as inactive without removing the row.
func (repo *categoryRepository) SoftDelete(ctx context.Context, id int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toCategoryDomain converts a GORM CategoryModel to a domain Category entity.
func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:       data.ID,
		Name:     data.Name,
		ParentID: data.ParentID,
		IsActive: data.IsActive,
	}
}

// fromCategoryDomain converts a domain Category entity to a GORM CategoryModel for persistence.
func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	if data == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:       data.ID,
		Name:     data.Name,
		ParentID: data.ParentID,
		IsActive: data.IsActive,
	}
}
