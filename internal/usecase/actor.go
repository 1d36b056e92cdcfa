// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import "storefront/internal/domain/entity"

// Actor identifies the authenticated user performing an operation.
// It is built from validated access token claims by the delivery layer.
type Actor struct {
	UserID int64
	Email  string
	Role   entity.Role
}
