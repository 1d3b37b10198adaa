// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
// Both operations are CPU-bound; implementations may queue them and return
// ctx.Err() if the caller gives up while waiting.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash using the algorithm's own
	// constant-time verification. A mismatch is (false, nil).
	Check(ctx context.Context, password, hash string) (bool, error)
}
