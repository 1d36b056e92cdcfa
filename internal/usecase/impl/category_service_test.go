package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// categoryServiceFixtures holds all test dependencies for category service tests.
type categoryServiceFixtures struct {
	service      usecase.CategoryUsecase
	txManager    *mockRepo.MockTransactionManager
	categoryRepo *mockRepo.MockCategoryRepository
}

func createTestCategoryService(t *testing.T) categoryServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewCategoryService(CategoryServiceParams{
		TxManager:    txManager,
		CategoryRepo: categoryRepo,
		Logger:       logger,
	})

	return categoryServiceFixtures{
		service:      service,
		txManager:    txManager,
		categoryRepo: categoryRepo,
	}
}

func TestCategoryService_ListCategories_Success(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	categories := []*entity.Category{
		{ID: 1, Name: "Books", IsActive: true},
		{ID: 2, Name: "Electronics", IsActive: true},
	}

	fx.categoryRepo.EXPECT().ListActive(ctx).Return(categories, nil)

	result, err := fx.service.ListCategories(ctx)

	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "Books", result[0].Name)
}

func TestCategoryService_GetCategory_NotFound(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()

	fx.categoryRepo.EXPECT().FindByID(ctx, int64(42)).Return(nil, repository.ErrCategoryNotFound)

	result, err := fx.service.GetCategory(ctx, 42)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))
}

func TestCategoryService_CreateCategory_Success(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	input := usecase.CategoryInput{Name: "Books"}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockCategoryRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(nil, repository.ErrCategoryNotFound)

			mockCategoryRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Category")).
				Run(func(ctx context.Context, category *entity.Category) {
					category.ID = 1
				}).
				Return(nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateCategory(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Books", created.Name)
	assert.Nil(t, created.ParentID)
	assert.True(t, created.IsActive)
}

func TestCategoryService_CreateCategory_NameTaken(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	input := usecase.CategoryInput{Name: "Books"}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockCategoryRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(&entity.Category{ID: 7, Name: input.Name, IsActive: true}, nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateCategory(ctx, input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNameTaken))
}

func TestCategoryService_CreateCategory_ParentMissing(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	input := usecase.CategoryInput{Name: "Paperbacks", ParentID: 99}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockCategoryRepo.EXPECT().
				FindByID(ctx, int64(99)).
				Return(nil, repository.ErrCategoryNotFound)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateCategory(ctx, input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))
}

func TestCategoryService_UpdateCategory_Success(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	input := usecase.CategoryInput{Name: "Fiction"}
	existing := &entity.Category{ID: 3, Name: "Books", IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockCategoryRepo.EXPECT().FindByID(ctx, int64(3)).Return(existing, nil)
			mockCategoryRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(nil, repository.ErrCategoryNotFound)
			mockCategoryRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Category")).
				Return(nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateCategory(ctx, 3, input)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Fiction", updated.Name)
}

func TestCategoryService_UpdateCategory_SameNameSkipsUniquenessCheck(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()
	input := usecase.CategoryInput{Name: "Books"}
	existing := &entity.Category{ID: 3, Name: "Books", IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockCategoryRepo.EXPECT().FindByID(ctx, int64(3)).Return(existing, nil)
			mockCategoryRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Category")).
				Return(nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateCategory(ctx, 3, input)

	require.NoError(t, err)
	assert.Equal(t, "Books", updated.Name)
}

func TestCategoryService_DeleteCategory_NotFound(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()

	fx.categoryRepo.EXPECT().SoftDelete(ctx, int64(8)).Return(repository.ErrCategoryNotFound)

	err := fx.service.DeleteCategory(ctx, 8)

	assert.True(t, errors.Is(err, domainerrors.ErrCategoryNotFound))
}

func TestCategoryService_DeleteCategory_Success(t *testing.T) {
	fx := createTestCategoryService(t)

	ctx := context.Background()

	fx.categoryRepo.EXPECT().SoftDelete(ctx, int64(8)).Return(nil)

	err := fx.service.DeleteCategory(ctx, 8)

	require.NoError(t, err)
}
