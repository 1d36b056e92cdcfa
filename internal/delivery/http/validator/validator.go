// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "storefront/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// requestValidator wraps a validator instance so Echo can call it through c.Validate.
type requestValidator struct {
	validate *playground.Validate
}

// New creates the validator used by the HTTP server.
func New() *requestValidator {
	return &requestValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks the bound request struct against its validate tags.
// Failures surface as a validation error carrying the field details.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
