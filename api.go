package relay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// Invalidation reasons reported via signals, metrics, and logs.
const (
	reasonExplicit    = "explicit"
	reasonInvalidator = "invalidator"
)

// Relay is a lazily-initialized, self-refreshing, invalidatable single-slot
// cache. It holds one logical value of type T, populates it on first access,
// detects staleness via TTL, invalidator predicate, or explicit invalidation,
// and refreshes asynchronously while observers keep receiving the previously
// cached value.
//
// All work is triggered by subscription: Observe evaluates the decision
// functions and launches at most one initialization and at most one refresh,
// no matter how many observers subscribe concurrently. There is no background
// timer; staleness is checked lazily at access time.
type Relay[T any] struct {
	ttl           time.Duration
	init          pipz.Chainable[*Fetch[T]]
	update        pipz.Chainable[*Fetch[T]]
	invalidator   Invalidator[T]
	onInitError   func(error)
	onUpdateError func(error)
	overflow      Policy
	buffer        int

	clock   clockz.Clock
	logger  Logger
	metrics MetricsProvider

	store     *Behavior[T]
	lastError atomic.Pointer[error]
	history   *errorHistory

	// All flags, the timestamp, and the live task handles form one shared
	// mutable state guarded by mu. Check-then-launch is atomic under it.
	mu           sync.Mutex
	initialized  bool
	initializing bool
	updating     bool
	invalidated  bool
	lastUpdate   time.Time
	initTask     chan struct{}
	refreshTask  chan struct{}
	closed       bool

	// In-flight sources are scoped to the relay, not to the subscription
	// that launched them: baseCtx is cancelled only by Close.
	baseCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a Relay bound to the given configuration. The configuration is
// frozen at this point; absent pieces behave as no-ops (no initializer means
// the relay starts initialized and empty on first access, no updater means a
// refresh yields nothing and clears the invalidated flag).
//
// Example:
//
//	r := relay.New[Profile](
//	    relay.WithInitializer(loadProfile),
//	    relay.WithUpdater(loadProfile),
//	    relay.WithTTL[Profile](5*time.Minute),
//	)
//	defer r.Close()
//
//	for p := range r.Observe(ctx) {
//	    render(p)
//	}
func New[T any](opts ...Option[T]) *Relay[T] {
	cfg := config[T]{
		onInitError:   func(error) {},
		onUpdateError: func(error) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Relay[T]{
		ttl:           cfg.ttl,
		init:          cfg.init,
		update:        cfg.update,
		invalidator:   cfg.invalidator,
		onInitError:   cfg.onInitError,
		onUpdateError: cfg.onUpdateError,
		overflow:      cfg.overflow,
		buffer:        cfg.buffer,
		clock:         clockz.RealClock,
		logger:        NopLogger{},
		metrics:       NoOpMetricsProvider{},
		store:         NewBehavior[T](),
		baseCtx:       ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets a custom clock for TTL evaluation and durations.
// Use this with clockz.FakeClock for deterministic expiry testing.
// Must be called before the first Observe.
func (r *Relay[T]) Clock(clock clockz.Clock) *Relay[T] {
	r.clock = clock
	return r
}

// Logger sets the logger used for source failures and lifecycle events.
// Default: NopLogger. Must be called before the first Observe.
func (r *Relay[T]) Logger(l Logger) *Relay[T] {
	r.logger = l
	return r
}

// Metrics sets a metrics provider for observability integration.
// Must be called before the first Observe.
func (r *Relay[T]) Metrics(m MetricsProvider) *Relay[T] {
	r.metrics = m
	return r
}

// ErrorHistorySize sets the number of recent source failures to retain.
// Use 0 (default) to only retain the most recent error via LastError.
// Must be called before the first Observe.
func (r *Relay[T]) ErrorHistorySize(n int) *Relay[T] {
	r.history = newErrorHistory(n)
	return r
}

// -----------------------------------------------------------------------------
// Introspection
// -----------------------------------------------------------------------------

// State returns a snapshot of the relay's lifecycle state.
func (r *Relay[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed:
		return StateClosed
	case r.initializing:
		return StateInitializing
	case !r.initialized:
		return StateEmpty
	case r.updating:
		return StateRefreshing
	case r.store.HasValue() && r.isStaleLocked(r.clock.Now()):
		return StateStale
	default:
		return StateReady
	}
}

// Initialized reports whether the initialization step has completed. It is
// true even when initialization produced no value.
func (r *Relay[T]) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Value returns the current cached value and true, or the zero value and
// false if nothing has been published yet.
func (r *Relay[T]) Value() (T, bool) {
	return r.store.Value()
}

// HasValue reports whether a value has been published.
func (r *Relay[T]) HasValue() bool {
	return r.store.HasValue()
}

// LastError returns the most recent source failure, or nil. It is cleared by
// the next successful population.
func (r *Relay[T]) LastError() error {
	ptr := r.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent source failures, oldest first. Returns nil
// unless enabled via ErrorHistorySize.
func (r *Relay[T]) ErrorHistory() []error {
	return r.history.recent()
}

// -----------------------------------------------------------------------------
// Invalidation
// -----------------------------------------------------------------------------

// Invalidate marks the current value as stale, so the next subscription
// triggers a refresh. If the current value implements SelfInvalidating, the
// call delegates to the value's own Invalidate instead of setting the
// relay-level flag.
func (r *Relay[T]) Invalidate() {
	r.invalidate(reasonExplicit)
}

func (r *Relay[T]) invalidate(reason string) {
	if v, ok := r.store.Value(); ok {
		if si, isSelf := any(v).(SelfInvalidating); isSelf {
			si.Invalidate()
			r.logger.Debug("invalidation delegated to value", Fields{"reason": reason})
			capitan.Emit(r.baseCtx, RelayInvalidated, KeyReason.Field(reason))
			r.metrics.OnInvalidated(reason)
			return
		}
	}

	r.mu.Lock()
	r.invalidated = true
	r.mu.Unlock()

	r.logger.Debug("value invalidated", Fields{"reason": reason})
	capitan.Emit(r.baseCtx, RelayInvalidated, KeyReason.Field(reason))
	r.metrics.OnInvalidated(reason)
}

// -----------------------------------------------------------------------------
// Decision Functions
// -----------------------------------------------------------------------------

// shouldInitializeLocked reports whether the initial-value source must be
// launched. Caller holds mu.
func (r *Relay[T]) shouldInitializeLocked() bool {
	return !r.store.HasValue() &&
		!r.initialized &&
		!r.initializing &&
		r.initTask == nil
}

// isStaleLocked reports whether the current value is stale: explicitly
// invalidated, self-reported stale, or expired by TTL. Caller holds mu.
func (r *Relay[T]) isStaleLocked(now time.Time) bool {
	if r.invalidated {
		return true
	}
	if v, ok := r.store.Value(); ok {
		if si, isSelf := any(v).(SelfInvalidating); isSelf && si.IsInvalidated() {
			return true
		}
	}
	if r.ttl > 0 && now.Sub(r.lastUpdate) >= r.ttl {
		return true
	}
	return false
}

// shouldRefreshLocked reports whether the update source must be launched.
// Caller holds mu.
func (r *Relay[T]) shouldRefreshLocked(now time.Time) bool {
	return (!r.store.HasValue() || r.isStaleLocked(now)) &&
		r.initialized &&
		!r.updating &&
		r.refreshTask == nil
}

// kick evaluates the decision functions and launches whatever work is due.
// The check and the flag/handle assignment happen under one lock acquisition,
// so concurrent subscriptions can never launch two tasks of the same kind.
func (r *Relay[T]) kick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if r.shouldInitializeLocked() {
		if r.init == nil {
			// No initial-value source: the relay starts initialized and empty.
			r.initialized = true
			capitan.Emit(r.baseCtx, RelayInitSucceeded)
		} else {
			r.initializing = true
			done := make(chan struct{})
			r.initTask = done
			go r.runInit(done)
		}
	}

	if r.shouldRefreshLocked(r.clock.Now()) {
		if r.update == nil {
			// No updater: the refresh yields nothing and clears the flag.
			r.invalidated = false
		} else {
			r.updating = true
			done := make(chan struct{})
			r.refreshTask = done
			go r.runRefresh(done)
		}
	}
}

// -----------------------------------------------------------------------------
// Async Population
// -----------------------------------------------------------------------------

func (r *Relay[T]) runInit(done chan struct{}) {
	start := r.clock.Now()
	finished := false

	// Completion must reset the flags on success, failure, and panic alike,
	// or the relay would be stuck initializing forever. On success the value
	// is published in the same critical section as the flag updates, so no
	// subscription can find the relay initialized while the store still
	// lacks the value. Behavior.Publish never blocks, so holding mu across
	// it is safe.
	finish := func(v T, ok bool) {
		finished = true
		r.mu.Lock()
		r.initializing = false
		r.initialized = true
		r.initTask = nil
		if ok {
			r.lastUpdate = r.clock.Now()
			r.store.Publish(v)
		}
		r.mu.Unlock()
		if ok {
			r.clearError()
			r.published(v)
		}
	}
	defer func() {
		if !finished {
			var zero T
			finish(zero, false)
		}
		close(done)
	}()

	capitan.Emit(r.baseCtx, RelayInitStarted, KeyTTL.Field(r.ttl))

	v, ok, err := runChain(r.baseCtx, r.init)
	elapsed := r.clock.Since(start)
	if err != nil {
		ierr := &InitError{Err: err}
		r.recordError(ierr)
		r.logger.Error("initialization failed", Fields{"error": err.Error()})
		capitan.Emit(r.baseCtx, RelayInitFailed,
			KeyError.Field(err.Error()),
			KeyElapsed.Field(elapsed),
		)
		r.metrics.OnInitFailure(elapsed)
		r.onInitError(ierr)
		return
	}

	finish(v, ok)
	capitan.Emit(r.baseCtx, RelayInitSucceeded, KeyElapsed.Field(elapsed))
	r.metrics.OnInitSuccess(elapsed)
}

func (r *Relay[T]) runRefresh(done chan struct{}) {
	start := r.clock.Now()
	finished := false

	// The invalidated flag is cleared on every completion, including failure
	// and cancellation, so a later subscription can retry from a clean slate.
	// On success the publish happens in the same critical section as the
	// flag updates, so no concurrent subscription can launch against a
	// half-completed state.
	finish := func(v T, ok bool) {
		finished = true
		r.mu.Lock()
		r.updating = false
		r.invalidated = false
		r.refreshTask = nil
		if ok {
			r.lastUpdate = r.clock.Now()
			r.store.Publish(v)
		}
		r.mu.Unlock()
		if ok {
			r.clearError()
			r.published(v)
		}
	}
	defer func() {
		if !finished {
			var zero T
			finish(zero, false)
		}
		close(done)
	}()

	capitan.Emit(r.baseCtx, RelayRefreshStarted, KeyTTL.Field(r.ttl))

	v, ok, err := runChain(r.baseCtx, r.update)
	elapsed := r.clock.Since(start)
	if err != nil {
		uerr := &UpdateError{Err: err}
		r.recordError(uerr)
		r.logger.Error("update failed", Fields{"error": err.Error()})
		capitan.Emit(r.baseCtx, RelayRefreshFailed,
			KeyError.Field(err.Error()),
			KeyElapsed.Field(elapsed),
		)
		r.metrics.OnRefreshFailure(elapsed)
		r.onUpdateError(uerr)
		return
	}

	finish(v, ok)
	capitan.Emit(r.baseCtx, RelayRefreshSucceeded, KeyElapsed.Field(elapsed))
	r.metrics.OnRefreshSuccess(elapsed)
}

// published emits the publish signals and evaluates the invalidator against
// the newly published value, outside the relay lock so the predicate may
// freely inspect the relay. A match marks the relay stale again; the refresh
// happens on the next access, never in a loop here. The flags of the task
// that produced v are already cleared, so the match survives it.
func (r *Relay[T]) published(v T) {
	r.logger.Debug("value published", Fields{"observers": r.store.Observers()})
	capitan.Emit(r.baseCtx, RelayValuePublished,
		KeyObservers.Field(r.store.Observers()),
	)
	r.metrics.OnPublish()

	if r.invalidator != nil && r.invalidator.IsInvalidated(v) {
		r.invalidate(reasonInvalidator)
	}
}

func (r *Relay[T]) recordError(err error) {
	e := err
	r.lastError.Store(&e)
	r.history.record(err)
}

func (r *Relay[T]) clearError() {
	r.lastError.Store(nil)
	r.history.reset()
}

// -----------------------------------------------------------------------------
// Teardown
// -----------------------------------------------------------------------------

// Close tears down the relay: it cancels in-flight initialization and refresh
// work, closes all subscriber channels, and rejects further subscriptions.
// The last published value remains readable via Value. Idempotent.
func (r *Relay[T]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.store.Close()
	close(r.done)
	capitan.Emit(r.baseCtx, RelayClosed, KeyState.Field(StateClosed.String()))
	r.logger.Info("relay closed", nil)
}
