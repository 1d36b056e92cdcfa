// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a user can have in the system.
type Role string

const (
	// RoleBuyer indicates a regular buyer account.
	RoleBuyer Role = "buyer"
	// RoleSeller indicates a seller account that can own products.
	RoleSeller Role = "seller"
	// RoleAdmin indicates an administrator with full access.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanSell reports whether the role is allowed to own products and
// publish reviews.
func (r Role) CanSell() bool {
	return r == RoleSeller || r == RoleAdmin
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
