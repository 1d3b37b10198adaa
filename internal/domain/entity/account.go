// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is a stored identity for one kind. It holds a one-way hash of the
// secret, never the secret itself. Exactly one of the profile pointers is set,
// matching Kind.
type Account struct {
	ID               uuid.UUID         // Repository-assigned, immutable.
	Kind             Kind              // Which collection the account belongs to.
	Name             string            // Display name, never empty.
	Email            string            // Normalized (trimmed, lower-cased), unique per kind.
	PasswordHash     string            // bcrypt hash; written once at creation.
	ProviderProfile  *ProviderProfile  // Set when Kind is KindProvider.
	RecipientProfile *RecipientProfile // Set when Kind is KindRecipient.
	CreatedAt        time.Time         // Repository-managed.
	UpdatedAt        time.Time         // Repository-managed.
}

// ProviderProfile holds data specific to care provider accounts.
type ProviderProfile struct {
	Specialization string // Medical specialization, never empty.
	Approved       bool   // Gates provider capabilities elsewhere; false on creation.
}

// RecipientProfile holds data specific to care recipient accounts.
type RecipientProfile struct {
	Age int // Always >= 0.
}
