package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"
)

// userResponse is the public view of a user account. The password hash
// never leaves the server.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(user *entity.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func newUserListResponse(users []*entity.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, newUserResponse(user))
	}

	return out
}

// UserHandler handles HTTP requests for accounts and authentication.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUsecase usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		logger:      logger,
	}
}

// Register handles new account creation.
func (h *UserHandler) Register(c echo.Context) error {
	var input usecase.RegisterUserInput
	if err := c.Bind(&input); err != nil {
		h.logger.Warn("Failed to bind register request", slog.Any("error", err))

		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.userUsecase.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newUserResponse(user), "User registered successfully")
}

// Login handles credential verification and token issuance.
func (h *UserHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		h.logger.Warn("Failed to bind login request", slog.Any("error", err))

		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&input); err != nil {
		return err
	}

	tokens, err := h.userUsecase.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Login successful")
}

// Refresh exchanges a refresh token for a new access token.
func (h *UserHandler) Refresh(c echo.Context) error {
	var input usecase.RefreshInput
	if err := c.Bind(&input); err != nil {
		h.logger.Warn("Failed to bind refresh request", slog.Any("error", err))

		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&input); err != nil {
		return err
	}

	tokens, err := h.userUsecase.Refresh(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tokens, "Token refreshed successfully")
}

// Logout revokes the presented refresh token.
func (h *UserHandler) Logout(c echo.Context) error {
	var input usecase.RefreshInput
	if err := c.Bind(&input); err != nil {
		h.logger.Warn("Failed to bind logout request", slog.Any("error", err))

		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.userUsecase.Logout(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// ListUsers returns every active user. Admin only.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userUsecase.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserListResponse(users), "Users retrieved successfully")
}

// GetProfile returns the account of the authenticated caller.
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userUsecase.GetUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user), "User retrieved successfully")
}

// GetUser returns a single user by ID.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userUsecase.GetUser(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user), "User retrieved successfully")
}

// UpdateUser partially modifies an account.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input usecase.UpdateUserInput
	if err := c.Bind(&input); err != nil {
		h.logger.Warn("Failed to bind update user request", slog.Any("error", err))

		return response.BindingError(c, "INVALID_INPUT", "Invalid request format")
	}

	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.userUsecase.UpdateUser(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user), "User updated successfully")
}

// DeleteUser soft-deletes an account and revokes its sessions.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return errors.WithStack(err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.userUsecase.DeleteUser(c.Request().Context(), actor, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User deleted successfully")
}
