package relay

import (
	"time"

	"github.com/zoobzio/pipz"
)

// config accumulates construction options. It is frozen once New returns;
// the relay never consults anything mutable after that.
type config[T any] struct {
	ttl           time.Duration
	init          pipz.Chainable[*Fetch[T]]
	update        pipz.Chainable[*Fetch[T]]
	invalidator   Invalidator[T]
	onInitError   func(error)
	onUpdateError func(error)
	overflow      Policy
	buffer        int
}

// Option configures a Relay at construction time.
type Option[T any] func(*config[T])

// WithTTL sets the time-to-live for the cached value. After this much time
// has passed since the last successful population, the value is considered
// stale and the next subscription triggers a refresh. Zero (the default)
// disables expiry. Staleness is only evaluated at access time; there is no
// background expiry timer.
func WithTTL[T any](d time.Duration) Option[T] {
	return func(c *config[T]) {
		c.ttl = d
	}
}

// WithInitialValue sets a literal initial value. It is published on first
// access and marks the relay initialized.
func WithInitialValue[T any](v T) Option[T] {
	return func(c *config[T]) {
		c.init = chainOf(SourceOf(v))
	}
}

// WithInitializer sets a deferred initial-value source, optionally wrapped in
// source middleware. Without an initializer (and without an initial value),
// the relay is marked initialized with no value on first access.
func WithInitializer[T any](src Source[T], opts ...SourceOption[T]) Option[T] {
	return func(c *config[T]) {
		c.init = chainOf(src, opts...)
	}
}

// WithUpdater sets the source used to refresh a stale or missing value,
// optionally wrapped in source middleware. Without an updater, a triggered
// refresh produces nothing and clears the invalidated flag.
func WithUpdater[T any](src Source[T], opts ...SourceOption[T]) Option[T] {
	return func(c *config[T]) {
		c.update = chainOf(src, opts...)
	}
}

// WithInvalidator sets a predicate evaluated against every newly published
// value. A match invalidates the relay, so the next subscription refreshes.
func WithInvalidator[T any](inv Invalidator[T]) Option[T] {
	return func(c *config[T]) {
		c.invalidator = inv
	}
}

// WithOnInitError sets the callback receiving initialization failures as
// *InitError. The default discards them. Failures never reach observers and
// never terminate the relay; the next subscription may retry.
func WithOnInitError[T any](fn func(error)) Option[T] {
	return func(c *config[T]) {
		c.onInitError = fn
	}
}

// WithOnUpdateError sets the callback receiving refresh failures as
// *UpdateError. The default discards them.
func WithOnUpdateError[T any](fn func(error)) Option[T] {
	return func(c *config[T]) {
		c.onUpdateError = fn
	}
}

// WithOverflow sets the default delivery policy for subscribers that do not
// choose one per subscription. Default: Latest.
func WithOverflow[T any](p Policy) Option[T] {
	return func(c *config[T]) {
		c.overflow = p
	}
}

// WithBufferSize sets the default subscriber channel capacity. Zero selects
// the policy's default.
func WithBufferSize[T any](n int) Option[T] {
	return func(c *config[T]) {
		c.buffer = n
	}
}
