package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service          usecase.UserUsecase
	txManager        *mockRepo.MockTransactionManager
	userRepo         *mockRepo.MockUserRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		Logger:           logger,
	})

	return userServiceFixtures{
		service:          svc,
		txManager:        txManager,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{Email: "test@example.com", Password: "Password123!"}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)

			fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					user.ID = 1
				}).
				Return(nil)

			return fn(mockFactory)
		})

	user, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, input.Email, user.Email)
	assert.Equal(t, entity.RoleBuyer, user.Role)
	assert.Equal(t, "hashed_password", user.HashedPassword)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{Email: "test@example.com", Password: "Password123!"}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(&entity.User{ID: 1, Email: input.Email, IsActive: true}, nil)

			return fn(mockFactory)
		})

	user, err := fx.service.Register(ctx, input)

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_Register_UnknownRole(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RegisterUserInput{Email: "test@example.com", Password: "Password123!", Role: "superuser"}

	user, err := fx.service.Register(ctx, input)

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}
	user := &entity.User{ID: 1, Email: input.Email, HashedPassword: "hashed", Role: entity.RoleBuyer, IsActive: true}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(input.Password, user.HashedPassword).Return(true)
	fx.tokenService.EXPECT().
		GenerateAccessToken(user.Email, user.ID, "buyer").
		Return("access_token", nil)
	fx.tokenService.EXPECT().
		GenerateRefreshToken(user.Email, user.ID, "buyer").
		Return("refresh_token", nil)
	fx.tokenService.EXPECT().HashToken("refresh_token").Return("refresh_hash")
	fx.tokenService.EXPECT().GetRefreshTokenDuration().Return(7 * 24 * time.Hour)
	fx.refreshTokenRepo.EXPECT().
		CreateRefreshToken(ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Run(func(ctx context.Context, token *entity.RefreshToken) {
			assert.Equal(t, int64(1), token.UserID)
			assert.Equal(t, "refresh_hash", token.TokenHash)
			assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), token.ExpiresAt, time.Minute)
		}).
		Return(nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, "bearer", output.TokenType)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "nobody@example.com", Password: "Password123!"}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.LoginInput{Email: "test@example.com", Password: "wrong"}
	user := &entity.User{ID: 1, Email: input.Email, HashedPassword: "hashed", Role: entity.RoleBuyer, IsActive: true}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(input.Password, user.HashedPassword).Return(false)

	output, err := fx.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Refresh_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RefreshInput{RefreshToken: "refresh_token"}
	claims := &service.Claims{UserID: 1, Role: "buyer"}
	claims.Subject = "test@example.com"
	expiresAt := time.Now().Add(24 * time.Hour)
	stored := &entity.RefreshToken{UserID: 1, TokenHash: "refresh_hash", ExpiresAt: expiresAt}
	user := &entity.User{ID: 1, Email: "test@example.com", Role: entity.RoleBuyer, IsActive: true}

	fx.tokenService.EXPECT().ValidateRefreshToken(input.RefreshToken).Return(claims, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("refresh_hash")
	fx.refreshTokenRepo.EXPECT().FindRefreshTokenByHash(ctx, "refresh_hash").Return(stored, nil)
	fx.userRepo.EXPECT().FindByEmail(ctx, "test@example.com").Return(user, nil)
	fx.tokenService.EXPECT().
		GenerateAccessToken(user.Email, user.ID, "buyer").
		Return("new_access_token", nil)

	group, err := fx.service.Refresh(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "new_access_token", group.AccessToken)
	assert.Equal(t, "refresh_token", group.RefreshToken.Token)
	assert.Equal(t, int64(1), group.RefreshToken.UserID)
	assert.Equal(t, expiresAt, group.RefreshToken.ExpiresAt)
}

func TestUserService_Refresh_ExpiredToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RefreshInput{RefreshToken: "stale_token"}

	fx.tokenService.EXPECT().
		ValidateRefreshToken(input.RefreshToken).
		Return(nil, jwt.ErrTokenExpired)

	group, err := fx.service.Refresh(ctx, input)

	assert.Nil(t, group)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestUserService_Refresh_RevokedToken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := usecase.RefreshInput{RefreshToken: "revoked_token"}
	claims := &service.Claims{UserID: 1, Role: "buyer"}
	claims.Subject = "test@example.com"

	fx.tokenService.EXPECT().ValidateRefreshToken(input.RefreshToken).Return(claims, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("revoked_hash")
	fx.refreshTokenRepo.EXPECT().
		FindRefreshTokenByHash(ctx, "revoked_hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	group, err := fx.service.Refresh(ctx, input)

	assert.Nil(t, group)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestUserService_Logout_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().HashToken("refresh_token").Return("refresh_hash")
	fx.refreshTokenRepo.EXPECT().DeleteRefreshTokenByHash(ctx, "refresh_hash").Return(nil)

	err := fx.service.Logout(ctx, usecase.RefreshInput{RefreshToken: "refresh_token"})

	require.NoError(t, err)
}

func TestUserService_UpdateUser_SelfChangesPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 1, Email: "test@example.com", Role: entity.RoleBuyer}
	newPassword := "NewPassword123!"
	input := usecase.UpdateUserInput{Password: &newPassword}
	existing := &entity.User{ID: 1, Email: "test@example.com", HashedPassword: "old_hash", Role: entity.RoleBuyer, IsActive: true}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)

			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)

			mockUserRepo.EXPECT().FindByID(ctx, int64(1)).Return(existing, nil)
			fx.hasher.EXPECT().Hash(newPassword).Return("new_hash", nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Return(nil)

			return fn(mockFactory)
		})

	updated, err := fx.service.UpdateUser(ctx, actor, 1, input)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new_hash", updated.HashedPassword)
}

func TestUserService_UpdateUser_OtherAccountForbidden(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 2, Email: "other@example.com", Role: entity.RoleBuyer}
	email := "hijack@example.com"

	updated, err := fx.service.UpdateUser(ctx, actor, 1, usecase.UpdateUserInput{Email: &email})

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrActionNotAllowed))
}

func TestUserService_UpdateUser_RoleChangeRequiresAdmin(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 1, Email: "test@example.com", Role: entity.RoleBuyer}
	role := "admin"

	updated, err := fx.service.UpdateUser(ctx, actor, 1, usecase.UpdateUserInput{Role: &role})

	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, domainerrors.ErrActionNotAllowed))
}

func TestUserService_DeleteUser_RevokesSessions(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	actor := usecase.Actor{UserID: 99, Email: "admin@example.com", Role: entity.RoleAdmin}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockRefreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().NewUserRepository().Return(mockUserRepo)
			mockFactory.EXPECT().NewRefreshTokenRepository().Return(mockRefreshTokenRepo)

			mockUserRepo.EXPECT().SoftDelete(ctx, int64(1)).Return(nil)
			mockRefreshTokenRepo.EXPECT().DeleteRefreshTokensByUserID(ctx, int64(1)).Return(nil)

			return fn(mockFactory)
		})

	err := fx.service.DeleteUser(ctx, actor, 1)

	require.NoError(t, err)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.userRepo.EXPECT().FindByID(ctx, int64(404)).Return(nil, repository.ErrUserNotFound)

	user, err := fx.service.GetUser(ctx, 404)

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
