// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"careauth/internal/domain/entity"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no account of the kind has the email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned by Create when the per-kind unique email constraint is violated.
	ErrEmailTaken = errors.New("email already taken")
)

// AccountRepository defines the persistence operations for both account kinds.
// Each kind is stored in its own collection with a unique index on email; that
// index, not any caller-side check, is what guarantees uniqueness.
type AccountRepository interface {
	// FindByEmail retrieves the account of the given kind with the normalized email.
	FindByEmail(ctx context.Context, kind entity.Kind, email string) (*entity.Account, error)

	// Create persists a new account and fills in ID and timestamps.
	Create(ctx context.Context, account *entity.Account) error
}
