package relay

import "github.com/zoobzio/capitan"

// Relay lifecycle signals.
var (
	// RelayClosed is emitted when a relay is torn down.
	RelayClosed = capitan.NewSignal(
		"relay.closed",
		"Relay closed",
	)

	// RelaySubscribed is emitted when a new observer attaches.
	RelaySubscribed = capitan.NewSignal(
		"relay.subscribed",
		"Observer subscribed",
	)

	// RelayUnsubscribed is emitted when an observer detaches.
	RelayUnsubscribed = capitan.NewSignal(
		"relay.unsubscribed",
		"Observer unsubscribed",
	)
)

// Population signals.
var (
	// RelayInitStarted is emitted when the initial-value source is launched.
	RelayInitStarted = capitan.NewSignal(
		"relay.init.started",
		"Initialization started",
	)

	// RelayInitSucceeded is emitted when initialization completes, whether or
	// not the source produced a value.
	RelayInitSucceeded = capitan.NewSignal(
		"relay.init.succeeded",
		"Initialization succeeded",
	)

	// RelayInitFailed is emitted when the initial-value source fails.
	RelayInitFailed = capitan.NewSignal(
		"relay.init.failed",
		"Initialization failed",
	)

	// RelayRefreshStarted is emitted when the update source is launched.
	RelayRefreshStarted = capitan.NewSignal(
		"relay.refresh.started",
		"Refresh started",
	)

	// RelayRefreshSucceeded is emitted when a refresh completes.
	RelayRefreshSucceeded = capitan.NewSignal(
		"relay.refresh.succeeded",
		"Refresh succeeded",
	)

	// RelayRefreshFailed is emitted when the update source fails.
	RelayRefreshFailed = capitan.NewSignal(
		"relay.refresh.failed",
		"Refresh failed",
	)
)

// Value signals.
var (
	// RelayValuePublished is emitted when a value is stored and fanned out.
	RelayValuePublished = capitan.NewSignal(
		"relay.value.published",
		"Value published to observers",
	)

	// RelayInvalidated is emitted when the relay's value is invalidated.
	RelayInvalidated = capitan.NewSignal(
		"relay.invalidated",
		"Value invalidated",
	)
)
