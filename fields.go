package relay

import "github.com/zoobzio/capitan"

// Field keys for relay events.
var (
	// KeyState is the relay state at the time of the event.
	KeyState = capitan.NewStringKey("state")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyReason is the cause of an invalidation: "explicit" or "invalidator".
	KeyReason = capitan.NewStringKey("reason")

	// KeyTTL is the configured time-to-live.
	KeyTTL = capitan.NewDurationKey("ttl")

	// KeyElapsed is the duration of a source run.
	KeyElapsed = capitan.NewDurationKey("elapsed")

	// KeyObservers is the number of current subscribers.
	KeyObservers = capitan.NewIntKey("observers")

	// KeyPolicy is the delivery policy of a subscription.
	KeyPolicy = capitan.NewStringKey("policy")
)
