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

// reviewServiceFixtures holds all test dependencies for review service tests.
type reviewServiceFixtures struct {
	service    usecase.ReviewUsecase
	txManager  *mockRepo.MockTransactionManager
	reviewRepo *mockRepo.MockReviewRepository
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	reviewRepo := mockRepo.NewMockReviewRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewReviewService(ReviewServiceParams{
		TxManager:  txManager,
		ReviewRepo: reviewRepo,
		Logger:     logger,
	})

	return reviewServiceFixtures{
		service:    service,
		txManager:  txManager,
		reviewRepo: reviewRepo,
	}
}

func buyerActor() usecase.Actor {
	return usecase.Actor{UserID: 20, Email: "buyer@example.com", Role: entity.RoleBuyer}
}

func reviewerActor() usecase.Actor {
	return usecase.Actor{UserID: 20, Email: "reviewer@example.com", Role: entity.RoleSeller}
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := reviewerActor()
	comment := "Sturdy and quiet."
	input := usecase.CreateReviewInput{ProductID: 1, Comment: &comment, Grade: 5}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, int64(1)).
				Return(&entity.Product{ID: 1, Name: "Mechanical Keyboard", CategoryID: 2, SellerID: 10, IsActive: true}, nil)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, actor.Email).
				Return(&entity.User{ID: 20, Email: actor.Email, Role: entity.RoleSeller, IsActive: true}, nil)

			mockReviewRepo.EXPECT().
				FindActiveByUserAndProduct(ctx, int64(20), int64(1)).
				Return(nil, repository.ErrReviewNotFound)

			mockReviewRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.Review")).
				Run(func(ctx context.Context, review *entity.Review) {
					review.ID = 5
				}).
				Return(nil)

			mockReviewRepo.EXPECT().
				RecomputeProductRating(ctx, int64(1)).
				Return(5.0, nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateReview(ctx, actor, input)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, int64(20), created.UserID)
	assert.Equal(t, 5, created.Grade)
	assert.True(t, created.IsActive)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := reviewerActor()
	input := usecase.CreateReviewInput{ProductID: 1, Grade: 4}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, int64(1)).
				Return(&entity.Product{ID: 1, IsActive: true}, nil)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, actor.Email).
				Return(&entity.User{ID: 20, Email: actor.Email, Role: entity.RoleSeller, IsActive: true}, nil)

			mockReviewRepo.EXPECT().
				FindActiveByUserAndProduct(ctx, int64(20), int64(1)).
				Return(&entity.Review{ID: 3, UserID: 20, ProductID: 1, Grade: 4, IsActive: true}, nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateReview(ctx, actor, input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateReview))
}

func TestReviewService_CreateReview_ProductMissing(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	input := usecase.CreateReviewInput{ProductID: 404, Grade: 4}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, int64(404)).
				Return(nil, repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateReview(ctx, buyerActor(), input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestReviewService_CreateReview_BuyerNotAllowed(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := buyerActor()
	input := usecase.CreateReviewInput{ProductID: 1, Grade: 5}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)
			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockProductRepo.EXPECT().
				FindByID(ctx, int64(1)).
				Return(&entity.Product{ID: 1, IsActive: true}, nil)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, actor.Email).
				Return(&entity.User{ID: 20, Email: actor.Email, Role: entity.RoleBuyer, IsActive: true}, nil)

			return fn(mockFactory)
		})

	created, err := fx.service.CreateReview(ctx, actor, input)

	assert.Nil(t, created)
	assert.True(t, errors.Is(err, domainerrors.ErrRoleNotAllowed))
}

func TestReviewService_UpdateReview_RecomputesRating(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := buyerActor()
	input := usecase.UpdateReviewInput{ProductID: 1, Grade: 2}
	existing := &entity.Review{ID: 5, UserID: 20, ProductID: 1, Grade: 5, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)

			mockReviewRepo.EXPECT().FindByID(ctx, int64(5)).Return(existing, nil)
			mockProductRepo.EXPECT().
				FindByID(ctx, int64(1)).
				Return(&entity.Product{ID: 1, IsActive: true}, nil)
			mockReviewRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Review")).
				Return(nil)
			mockReviewRepo.EXPECT().
				RecomputeProductRating(ctx, int64(1)).
				Return(2.0, nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateReview(ctx, actor, 5, input)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 2, updated.Grade)
}

func TestReviewService_UpdateReview_ProductMissing(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := buyerActor()
	input := usecase.UpdateReviewInput{ProductID: 404, Grade: 3}
	existing := &entity.Review{ID: 5, UserID: 20, ProductID: 1, Grade: 5, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)

			mockReviewRepo.EXPECT().FindByID(ctx, int64(5)).Return(existing, nil)
			mockProductRepo.EXPECT().
				FindByID(ctx, int64(404)).
				Return(nil, repository.ErrProductNotFound)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateReview(ctx, actor, 5, input)

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestReviewService_UpdateReview_RepointRecomputesBothProducts(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := buyerActor()
	input := usecase.UpdateReviewInput{ProductID: 2, Grade: 4}
	existing := &entity.Review{ID: 5, UserID: 20, ProductID: 1, Grade: 5, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)

			mockReviewRepo.EXPECT().FindByID(ctx, int64(5)).Return(existing, nil)
			mockProductRepo.EXPECT().
				FindByID(ctx, int64(2)).
				Return(&entity.Product{ID: 2, IsActive: true}, nil)
			mockReviewRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Review")).
				Return(nil)
			mockReviewRepo.EXPECT().
				RecomputeProductRating(ctx, int64(2)).
				Return(4.0, nil)
			mockReviewRepo.EXPECT().
				RecomputeProductRating(ctx, int64(1)).
				Return(0.0, nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateReview(ctx, actor, 5, input)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(2), updated.ProductID)
}

func TestReviewService_UpdateReview_NotAuthor(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 77, Email: "stranger@example.com", Role: entity.RoleBuyer}
	input := usecase.UpdateReviewInput{ProductID: 1, Grade: 1}
	existing := &entity.Review{ID: 5, UserID: 20, ProductID: 1, Grade: 5, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)
			mockProductRepo := mockRepo.NewMockProductRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)
			mockFactory.EXPECT().NewProductRepository().Return(mockProductRepo)

			mockReviewRepo.EXPECT().FindByID(ctx, int64(5)).Return(existing, nil)
			mockProductRepo.EXPECT().
				FindByID(ctx, int64(1)).
				Return(&entity.Product{ID: 1, IsActive: true}, nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateReview(ctx, actor, 5, input)

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrActionNotAllowed))
}

func TestReviewService_DeleteReview_RecomputesRating(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	actor := buyerActor()
	existing := &entity.Review{ID: 5, UserID: 20, ProductID: 1, Grade: 5, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockReviewRepo := mockRepo.NewMockReviewRepository(t)

			mockFactory.EXPECT().NewReviewRepository().Return(mockReviewRepo)

			mockReviewRepo.EXPECT().FindByID(ctx, int64(5)).Return(existing, nil)
			mockReviewRepo.EXPECT().SoftDelete(ctx, int64(5)).Return(nil)
			mockReviewRepo.EXPECT().
				RecomputeProductRating(ctx, int64(1)).
				Return(0.0, nil)

			return fn(mockFactory)
		})

	err := fx.service.DeleteReview(ctx, actor, 5)

	require.NoError(t, err)
}

func TestReviewService_GetReviewsByProduct_UnknownProductIsEmpty(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()

	fx.reviewRepo.EXPECT().FindByProduct(ctx, int64(404)).Return([]*entity.Review{}, nil)

	reviews, err := fx.service.GetReviewsByProduct(ctx, 404)

	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReviewService_GetReview_NotFound(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()

	fx.reviewRepo.EXPECT().FindByID(ctx, int64(404)).Return(nil, repository.ErrReviewNotFound)

	review, err := fx.service.GetReview(ctx, 404)

	assert.Nil(t, review)
	assert.True(t, errors.Is(err, domainerrors.ErrReviewNotFound))
}
