package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReviewHandler holds dependencies for review-related handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListReviews returns every active review.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	reviews, err := h.uc.ListReviews(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "Reviews retrieved successfully")
}

// GetReview returns a single review by ID.
func (h *ReviewHandler) GetReview(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	review, err := h.uc.GetReview(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "Review retrieved successfully")
}

// GetReviewsByProduct returns the active reviews written for a product.
func (h *ReviewHandler) GetReviewsByProduct(c echo.Context) error {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.uc.GetReviewsByProduct(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "Reviews retrieved successfully")
}

// CreateReview handles the review publication request for the authenticated user.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var input usecase.CreateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	review, err := h.uc.CreateReview(c.Request().Context(), actor, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, review, "Review created successfully")
}

// UpdateReview handles the review update request.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var input usecase.UpdateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	review, err := h.uc.UpdateReview(c.Request().Context(), actor, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "Review updated successfully")
}

// DeleteReview handles the review deletion request.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteReview(c.Request().Context(), actor, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Review deleted"}, "Review deleted successfully")
}
