package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for product-related handlers.
type ProductHandler struct {
	uc     usecase.ProductUsecase
	logger *slog.Logger
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListProducts returns every active product.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// GetProduct returns a single product by ID.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

// GetProductsByCategory returns the active products of a category.
func (h *ProductHandler) GetProductsByCategory(c echo.Context) error {
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	products, err := h.uc.GetProductsByCategory(c.Request().Context(), categoryID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// CreateProduct handles the product creation request for the authenticated seller.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), actor, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// UpdateProduct handles the product update request.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct handles the product deletion request.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), actor, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Product deleted"}, "Product deleted successfully")
}
