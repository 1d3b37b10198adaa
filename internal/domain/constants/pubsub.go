// Package constants holds identifiers shared across layers.
package constants

// Pub/Sub provider names accepted in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// EventTypeAccountRegistered is the event_type attribute of account registration messages.
const EventTypeAccountRegistered = "account.registered"
