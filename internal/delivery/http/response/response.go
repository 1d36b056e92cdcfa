// Package response defines the envelope every HTTP reply uses, success or
// failure, so clients can always parse the same shape.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the unified reply envelope.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`    // HTTP status code
	Message string     `json:"message"` // User-friendly message
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries the machine-readable part of a failure.
type ErrorInfo struct {
	Code    string `json:"code"`    // Business error code, e.g. "PRODUCT_NOT_FOUND"
	Details string `json:"details"` // Detailed error description
}

// Success writes a successful reply with the given payload.
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error writes a failure reply carrying a business error code.
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BindingError reports a request body that could not be bound to its DTO.
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}
