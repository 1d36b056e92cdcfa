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

// productServiceFixtures holds all test dependencies for product service tests.
type productServiceFixtures struct {
	service      usecase.ProductUsecase
	txManager    *mockRepo.MockTransactionManager
	productRepo  *mockRepo.MockProductRepository
	categoryRepo *mockRepo.MockCategoryRepository
	userRepo     *mockRepo.MockUserRepository
}

func createTestProductService(t *testing.T) productServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	categoryRepo := mockRepo.NewMockCategoryRepository(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewProductService(ProductServiceParams{
		TxManager:    txManager,
		ProductRepo:  productRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		Logger:       logger,
	})

	return productServiceFixtures{
		service:      service,
		txManager:    txManager,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

func sellerActor() usecase.Actor {
	return usecase.Actor{UserID: 10, Email: "seller@example.com", Role: entity.RoleSeller}
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	actor := sellerActor()
	input := usecase.ProductInput{Name: "Mechanical Keyboard", Stock: 5, CategoryID: 2}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockCategoryRepo.EXPECT().
				FindByID(ctx, int64(2)).
				Return(&entity.Category{ID: 2, Name: "Electronics", IsActive: true}, nil)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, actor.Email).
				Return(&entity.User{ID: 10, Email: actor.Email, Role: entity.RoleSeller, IsActive: true}, nil)

			mockProductRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(nil, repository.ErrProductNotFound)

			mockProductRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Product")).
				Run(func(ctx context.Context, product *entity.Product) {
					product.ID = 1
				}).
				Return(nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateProduct(ctx, actor, input)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(10), created.SellerID)
	assert.Equal(t, int64(2), created.CategoryID)
	assert.True(t, created.IsActive)
}

func TestProductService_CreateProduct_MissingCategory(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	input := usecase.ProductInput{Name: "Mechanical Keyboard", Stock: 5}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(nil, repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateProduct(ctx, sellerActor(), input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrProductCategoryRequired))
}

func TestProductService_CreateProduct_NameConflictWinsOverBadCategory(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	input := usecase.ProductInput{Name: "Mechanical Keyboard", Stock: 5}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(&entity.Product{ID: 9, Name: input.Name, IsActive: true}, nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateProduct(ctx, sellerActor(), input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNameTaken))
}

func TestProductService_CreateProduct_BuyerNotAllowed(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 20, Email: "buyer@example.com", Role: entity.RoleBuyer}
	input := usecase.ProductInput{Name: "Mechanical Keyboard", Stock: 5, CategoryID: 2}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(nil, repository.ErrProductNotFound)

			mockCategoryRepo.EXPECT().
				FindByID(ctx, int64(2)).
				Return(&entity.Category{ID: 2, Name: "Electronics", IsActive: true}, nil)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, actor.Email).
				Return(&entity.User{ID: 20, Email: actor.Email, Role: entity.RoleBuyer, IsActive: true}, nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateProduct(ctx, actor, input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrRoleNotAllowed))
}

func TestProductService_UpdateProduct_NotOwner(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 33, Email: "other@example.com", Role: entity.RoleSeller}
	input := usecase.ProductInput{Name: "Mechanical Keyboard", Stock: 5, CategoryID: 2}
	existing := &entity.Product{ID: 1, Name: "Mechanical Keyboard", CategoryID: 2, SellerID: 10, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockProductRepo.EXPECT().FindByID(ctx, int64(1)).Return(existing, nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateProduct(ctx, actor, 1, input)

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrActionNotAllowed))
}

func TestProductService_UpdateProduct_AdminCanEditAnyProduct(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 99, Email: "admin@example.com", Role: entity.RoleAdmin}
	input := usecase.ProductInput{Name: "Ergonomic Keyboard", Stock: 3, CategoryID: 2}
	existing := &entity.Product{ID: 1, Name: "Mechanical Keyboard", CategoryID: 2, SellerID: 10, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockCategoryRepo := mockRepo.NewMockCategoryRepository(t)

			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewCategoryRepository().Return(mockCategoryRepo)

			mockProductRepo.EXPECT().FindByID(ctx, int64(1)).Return(existing, nil)
			mockCategoryRepo.EXPECT().
				FindByID(ctx, int64(2)).
				Return(&entity.Category{ID: 2, Name: "Electronics", IsActive: true}, nil)
			mockProductRepo.EXPECT().
				FindByName(ctx, input.Name).
				Return(nil, repository.ErrProductNotFound)
			mockProductRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Product")).
				Return(nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateProduct(ctx, actor, 1, input)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Ergonomic Keyboard", updated.Name)
	assert.Equal(t, 3, updated.Stock)
}

func TestProductService_DeleteProduct_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	actor := sellerActor()
	existing := &entity.Product{ID: 1, Name: "Mechanical Keyboard", CategoryID: 2, SellerID: 10, IsActive: true}

	fx.productRepo.EXPECT().FindByID(ctx, int64(1)).Return(existing, nil)
	fx.productRepo.EXPECT().SoftDelete(ctx, int64(1)).Return(nil)

	err := fx.service.DeleteProduct(ctx, actor, 1)

	require.NoError(t, err)
}

func TestProductService_GetProductsByCategory_Empty(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()

	fx.productRepo.EXPECT().FindByCategory(ctx, int64(2)).Return(nil, nil)

	products, err := fx.service.GetProductsByCategory(ctx, 2)

	assert.Nil(t, products)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_GetProduct_Success(t *testing.T) {
	fx := createTestProductService(t)

	ctx := context.Background()
	product := &entity.Product{ID: 1, Name: "Mechanical Keyboard", CategoryID: 2, SellerID: 10, IsActive: true}

	fx.productRepo.EXPECT().FindByID(ctx, int64(1)).Return(product, nil)

	result, err := fx.service.GetProduct(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, product, result)
}
