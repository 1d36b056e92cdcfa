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
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	logger           *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns every active user.
func (srv *userService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// GetUser returns a single active user by ID.
func (srv *userService) GetUser(ctx context.Context, id int64) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get user")
	}

	return user, nil
}

// GetUserByEmail returns a single active user by email.
func (srv *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to get user by email")
	}

	return user, nil
}

// Register creates a new user account with a hashed password.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterUserInput) (*entity.User, error) {
	srv.log(ctx).Info("Registering user", slog.String("email", input.Email))

	role := entity.RoleBuyer
	if input.Role != "" {
		role = entity.Role(input.Role)
	}
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role")
	}

	var registered *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		if _, err := userRepo.FindByEmail(ctx, input.Email); err == nil {
			return domainerrors.ErrUserAlreadyExists
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		hashedPassword, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
		}

		user := &entity.User{
			Email:          input.Email,
			HashedPassword: hashedPassword,
			Role:           role,
			IsActive:       true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUserEmailConflict) {
				return domainerrors.ErrUserAlreadyExists
			}

			return errors.Wrap(err, "failed to create user")
		}

		registered = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to register user", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("User registered", slog.Int64("userID", registered.ID))

	return registered, nil
}

// UpdateUser partially modifies a user. Only the user themself or an admin may
// update the account; role changes are reserved for admins.
func (srv *userService) UpdateUser(ctx context.Context, actor usecase.Actor, id int64, input usecase.UpdateUserInput) (*entity.User, error) {
	srv.log(ctx).Info("Updating user", slog.Int64("targetID", id), slog.Int64("userID", actor.UserID))

	if err := authorizeAccountChange(actor, id); err != nil {
		return nil, err
	}
	if input.Role != nil && !actor.Role.IsAdmin() {
		return nil, domainerrors.ErrActionNotAllowed
	}

	var updated *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		existing, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user for update")
		}

		if input.Email != nil && *input.Email != existing.Email {
			if _, err := userRepo.FindByEmail(ctx, *input.Email); err == nil {
				return domainerrors.ErrUserAlreadyExists
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(err, "failed to check email availability")
			}
			existing.Email = *input.Email
		}
		if input.Password != nil {
			hashedPassword, err := srv.hasher.Hash(*input.Password)
			if err != nil {
				return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
			}
			existing.HashedPassword = hashedPassword
		}
		if input.Role != nil {
			role := entity.Role(*input.Role)
			if !role.IsValid() {
				return domainerrors.ErrValidationFailed.WrapMessage("unknown role")
			}
			existing.Role = role
		}

		if err := userRepo.Update(ctx, existing); err != nil {
			if errors.Is(err, repository.ErrUserEmailConflict) {
				return domainerrors.ErrUserAlreadyExists
			}
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to update user")
		}

		updated = existing

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update user", slog.Int64("targetID", id), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// DeleteUser soft-deletes a user account and revokes their sessions.
func (srv *userService) DeleteUser(ctx context.Context, actor usecase.Actor, id int64) error {
	srv.log(ctx).Info("Deleting user", slog.Int64("targetID", id), slog.Int64("userID", actor.UserID))

	if err := authorizeAccountChange(actor, id); err != nil {
		return err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		refreshTokenRepo := repoFactory.NewRefreshTokenRepository()

		if err := userRepo.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to delete user")
		}

		if err := refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, id); err != nil {
			return errors.Wrap(err, "failed to revoke user sessions")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete user", slog.Int64("targetID", id), slog.Any("error", err))

		return err
	}

	return nil
}

// Login verifies credentials and issues an access and refresh token pair.
// The refresh token is stored hashed so a database leak cannot replay sessions.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Info("Logging in", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a bad password, so the response does not reveal
			// whether the email is registered.
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}
	if !srv.hasher.Check(input.Password, user.HashedPassword) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.Email, user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}
	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.Email, user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	session := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Int64("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (srv *userService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.TokenGroup, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	stored, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, domainerrors.ErrTokenExpired
		}
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, domainerrors.ErrTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}

	user, err := srv.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to load user for refresh")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.Email, user.ID, user.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.TokenGroup{
		AccessToken: accessToken,
		RefreshToken: usecase.RefreshTokenRecord{
			Token:     input.RefreshToken,
			UserID:    stored.UserID,
			ExpiresAt: stored.ExpiresAt,
		},
	}, nil
}

// Logout revokes the presented refresh token.
func (srv *userService) Logout(ctx context.Context, input usecase.RefreshInput) error {
	err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return domainerrors.ErrTokenInvalid
		}

		return errors.Wrap(err, "failed to revoke refresh token")
	}

	return nil
}

// authorizeAccountChange allows the account owner and admins to modify it.
func authorizeAccountChange(actor usecase.Actor, targetID int64) error {
	if actor.Role.IsAdmin() {
		return nil
	}
	if actor.UserID == targetID {
		return nil
	}

	return domainerrors.ErrActionNotAllowed
}

// mapTokenError converts JWT validation failures into domain errors, keeping
// the expired case distinguishable from a malformed token.
func mapTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return domainerrors.ErrTokenExpired
	}

	return domainerrors.ErrTokenInvalid
}
