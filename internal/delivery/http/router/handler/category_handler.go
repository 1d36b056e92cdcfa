package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CategoryHandler holds dependencies for category-related handlers.
type CategoryHandler struct {
	uc     usecase.CategoryUsecase
	logger *slog.Logger
}

// NewCategoryHandler is the constructor for CategoryHandler, injected by Fx.
func NewCategoryHandler(uc usecase.CategoryUsecase, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListCategories returns every active category.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, categories, "Categories retrieved successfully")
}

// GetCategory returns a single category by ID.
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	category, err := h.uc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, category, "Category retrieved successfully")
}

// CreateCategory handles the category creation request.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	category, err := h.uc.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, category, "Category created successfully")
}

// UpdateCategory handles the category update request.
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid category input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	category, err := h.uc.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, category, "Category updated successfully")
}

// DeleteCategory handles the category deletion request.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteCategory(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Category deleted"}, "Category deleted successfully")
}
