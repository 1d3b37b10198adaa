package service

import (
	"context"
	"time"
)

// AccountRegisteredEvent announces a newly created account to downstream consumers
type AccountRegisteredEvent struct {
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	AccountID    string    `json:"account_id"`
	Kind         string    `json:"kind"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountRegistered publishes an account registration event
	PublishAccountRegistered(ctx context.Context, event *AccountRegisteredEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
