// Package service defines interfaces for stateless domain logic that does not
// belong to any single entity.
package service

// PasswordHasher hides the concrete hashing algorithm from the domain layer.
// Stored credentials only ever hold the hashed form.
type PasswordHasher interface {
	// Hash derives a salted hash from the plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext password matches the stored hash.
	Check(password, hash string) bool
}
