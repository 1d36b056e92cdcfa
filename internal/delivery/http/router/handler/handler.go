// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// actorFromContext rebuilds the authenticated identity placed on the context
// by the auth middleware.
func actorFromContext(c echo.Context) (usecase.Actor, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(int64)
	if !ok {
		return usecase.Actor{}, domainerrors.ErrTokenInvalid.WithDetails("user ID missing from token")
	}
	email, ok := c.Get(middleware.ContextKeyEmail).(string)
	if !ok {
		return usecase.Actor{}, domainerrors.ErrTokenInvalid.WithDetails("email missing from token")
	}
	role, ok := c.Get(middleware.ContextKeyRole).(string)
	if !ok {
		return usecase.Actor{}, domainerrors.ErrTokenInvalid.WithDetails("role missing from token")
	}

	return usecase.Actor{
		UserID: userID,
		Email:  email,
		Role:   entity.Role(role),
	}, nil
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrValidationFailed.WithDetails(name + " must be an integer")
	}

	return id, nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
