// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"careauth/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register an account of any kind.
// Age is raw text so malformed values are reported as field violations.
type RegisterInput struct {
	Kind           entity.Kind
	Name           string
	Email          string
	Password       string
	Specialization string // Provider only.
	Age            string // Recipient only.
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Kind     entity.Kind
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account without its password hash.
type RegisterOutput struct {
	Account *entity.PublicAccount
}

// LoginOutput returns the role-tagged identity of the authenticated account.
type LoginOutput struct {
	Identity *entity.Identity
}

// AccountUsecase defines the credential operations for both account kinds.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
