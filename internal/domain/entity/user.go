// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the core entity in the system, representing a unique account.
// The email doubles as the login identifier, so it must stay unique among
// active users.
type User struct {
	ID             int64     // The unique identifier for the user.
	Email          string    // The user's email, used as the login identifier.
	HashedPassword string    // Stores the bcrypt-hashed password.
	Role           Role      // The user's role: buyer, seller or admin.
	IsActive       bool      // Soft-delete marker. Inactive users are hidden from reads.
	CreatedAt      time.Time // Timestamp of when this user account was created.
	UpdatedAt      time.Time // Timestamp of the last modification to this user's data.
}
