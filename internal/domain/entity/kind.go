// Package entity contains the core business objects of the project.
package entity

import "github.com/pkg/errors"

// Kind discriminates the two account populations. Each kind lives in its own
// collection and has its own email namespace.
type Kind string

const (
	// KindProvider indicates a care provider account.
	KindProvider Kind = "provider"
	// KindRecipient indicates a care recipient account.
	KindRecipient Kind = "recipient"
)

// ErrUnknownKind is returned by ParseKind for anything outside the closed set.
var ErrUnknownKind = errors.New("unknown account kind")

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is a valid value.
func (k Kind) IsValid() bool {
	switch k {
	case KindProvider, KindRecipient:
		return true
	default:
		return false
	}
}

// Kinds lists every account kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindProvider, KindRecipient}
}

// ParseKind converts a raw string into a Kind, rejecting unknown values.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}

	return k, nil
}
