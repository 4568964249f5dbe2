// Package relay provides a lazily-initialized, self-refreshing, invalidatable
// single-slot cached value with broadcast delivery to observers.
//
// The core type is Relay, which holds one logical value of type T. The value
// is populated on first access, considered stale after a TTL, on an
// invalidator predicate match, or on an explicit Invalidate call, and
// refreshed asynchronously while observers keep receiving the previously
// cached value.
//
// # Lifecycle
//
// A relay moves through a composite state tracked as independent flags:
//
//	empty → initializing → ready ⇄ (stale → refreshing)
//
// Every new subscription evaluates the decision functions: the first
// subscription launches the initial-value source; any subscription that finds
// the value missing or stale launches the update source. At most one
// initialization and at most one refresh are in flight at any time, no matter
// how many observers subscribe concurrently. There is no background expiry
// timer: staleness is checked lazily at access time.
//
// # Sources
//
// Population is driven by a Source, a deferred and possibly-absent
// computation:
//
//	func(ctx context.Context) (value T, ok bool, err error)
//
// Literal values (SourceOf), plain functions (SourceFunc), files
// (FileSource), Redis keys (redis.New), and HTTP endpoints (web.New) are
// provided. Sources can be wrapped with retry, backoff, timeout, and
// fallback middleware (UseRetry, UseBackoff, UseTimeout, UseFallback).
//
// # Invalidation
//
// Three independent triggers mark a value stale: TTL expiry, an Invalidator
// predicate evaluated against every published value, and Invalidate. A value
// type may implement SelfInvalidating to manage its own dirtiness; the relay
// then defers to the value instead of its own flag.
//
// # Failure Handling
//
// Source failures are routed to the configured error callbacks and recorded
// (LastError, ErrorHistory). They never reach observer channels and never
// terminate a stream; the in-progress flag is always cleared so a later
// subscription retries.
//
// # Example
//
//	r := relay.New[Settings](
//	    relay.WithInitializer(loadSettings),
//	    relay.WithUpdater(loadSettings, relay.UseRetry[Settings](3)),
//	    relay.WithTTL[Settings](time.Minute),
//	    relay.WithInvalidator(relay.InvalidatorFunc[Settings](func(s Settings) bool {
//	        return s.Revision == 0
//	    })),
//	)
//	defer r.Close()
//
//	go func() {
//	    for s := range r.Observe(ctx) {
//	        apply(s)
//	    }
//	}()
package relay
