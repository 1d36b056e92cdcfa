package validator

import (
	"errors"
	"strings"
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidator_ProductInputWithinLimits(t *testing.T) {
	v := New()

	input := usecase.ProductInput{
		Name:        "Mechanical Keyboard",
		Description: strPtr(strings.Repeat("d", 500)),
		ImageURL:    strPtr("https://example.com/" + strings.Repeat("k", 180)),
		Stock:       3,
		CategoryID:  1,
	}

	assert.NoError(t, v.Validate(input))
}

// assertValidationFailed checks the error carries the validation error code,
// the same way the error middleware classifies it.
func assertValidationFailed(t *testing.T, err error) {
	t.Helper()

	var appErr domainerrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, domainerrors.ErrValidationFailed.ErrorCode(), appErr.ErrorCode())
}

func TestValidator_ProductDescriptionTooLong(t *testing.T) {
	v := New()

	input := usecase.ProductInput{
		Name:        "Mechanical Keyboard",
		Description: strPtr(strings.Repeat("d", 600)),
		CategoryID:  1,
	}

	err := v.Validate(input)
	assert.Error(t, err)
	assertValidationFailed(t, err)
}

func TestValidator_ProductImageURLTooLong(t *testing.T) {
	v := New()

	input := usecase.ProductInput{
		Name:       "Mechanical Keyboard",
		ImageURL:   strPtr("https://example.com/" + strings.Repeat("k", 300)),
		CategoryID: 1,
	}

	err := v.Validate(input)
	assert.Error(t, err)
	assertValidationFailed(t, err)
}
