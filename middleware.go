package relay

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// SourceOption wraps a source with middleware such as retry, timeout, or
// fallback. Options are applied to the initializer or updater at construction:
//
//	relay.New[Config](
//	    relay.WithUpdater(fetchConfig,
//	        relay.UseTimeout[Config](5*time.Second),
//	        relay.UseRetry[Config](3),
//	    ),
//	)
//
// The relay itself never retries a failed source: a failure clears the
// in-progress flag and the next subscription re-evaluates. Middleware is the
// opt-in way to make an individual source attempt more resilient.
type SourceOption[T any] func(pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]]

// UseRetry retries a failed source immediately, up to maxAttempts total
// attempts. For delays between attempts use UseBackoff.
func UseRetry[T any](maxAttempts int) SourceOption[T] {
	return func(p pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// UseBackoff retries a failed source with exponential backoff between
// attempts: baseDelay, 2*baseDelay, 4*baseDelay, and so on.
func UseBackoff[T any](maxAttempts int, baseDelay time.Duration) SourceOption[T] {
	return func(p pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// UseTimeout caps a single source attempt at the given duration.
func UseTimeout[T any](d time.Duration) SourceOption[T] {
	return func(p pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// UseCircuitBreaker wraps a source with circuit breaker protection. After
// 'failures' consecutive failures the circuit opens and rejects further
// attempts immediately until 'recovery' time has passed, when a single
// attempt is allowed through to test recovery.
//
// The breaker is stateful and lives with the wrapped source, so its state
// carries across refresh cycles.
func UseCircuitBreaker[T any](failures int, recovery time.Duration) SourceOption[T] {
	return func(p pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]] {
		return pipz.NewCircuitBreaker("circuit-breaker", p, failures, recovery)
	}
}

// UseFallback tries alternative sources in order when the primary fails.
func UseFallback[T any](fallbacks ...Source[T]) SourceOption[T] {
	return func(p pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]] {
		all := make([]pipz.Chainable[*Fetch[T]], 0, len(fallbacks)+1)
		all = append(all, p)
		for _, src := range fallbacks {
			all = append(all, chainOf(src))
		}
		return pipz.NewFallback("fallback", all...)
	}
}

// UseEffect observes each successful fetch without modifying it. Useful for
// logging or metrics around a specific source.
func UseEffect[T any](name string, fn func(context.Context, *Fetch[T]) error) SourceOption[T] {
	return func(p pipz.Chainable[*Fetch[T]]) pipz.Chainable[*Fetch[T]] {
		return pipz.NewSequence("effect", p, pipz.Effect(pipz.Name(name), fn))
	}
}
