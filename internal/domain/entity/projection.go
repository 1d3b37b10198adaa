package entity

import (
	"time"

	"github.com/google/uuid"
)

// PublicAccount is the subset of an Account safe to return after registration.
type PublicAccount struct {
	ID             uuid.UUID `json:"id"`
	Kind           Kind      `json:"kind"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Specialization string    `json:"specialization,omitempty"`
	Approved       *bool     `json:"approved,omitempty"`
	Age            *int      `json:"age,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Identity is the role-tagged payload returned by a successful login.
type Identity struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization,omitempty"`
	Approved       *bool     `json:"approved,omitempty"`
	Age            *int      `json:"age,omitempty"`
	Role           Kind      `json:"role"`
}

// Public projects the account without its password hash.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}

	view := &PublicAccount{
		ID:        a.ID,
		Kind:      a.Kind,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	view.Specialization, view.Approved, view.Age = a.profileFields()

	return view
}

// Identity projects the account into the login payload. Timestamps and the
// password hash are never included.
func (a *Account) Identity() *Identity {
	if a == nil {
		return nil
	}

	identity := &Identity{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Kind,
	}
	identity.Specialization, identity.Approved, identity.Age = a.profileFields()

	return identity
}

func (a *Account) profileFields() (specialization string, approved *bool, age *int) {
	switch a.Kind {
	case KindProvider:
		if a.ProviderProfile != nil {
			approvedVal := a.ProviderProfile.Approved
			return a.ProviderProfile.Specialization, &approvedVal, nil
		}
	case KindRecipient:
		if a.RecipientProfile != nil {
			ageVal := a.RecipientProfile.Age
			return "", nil, &ageVal
		}
	}

	return "", nil, nil
}
