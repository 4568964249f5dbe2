package relay

// State represents the observable lifecycle state of a Relay.
//
// Internally the relay tracks independent flags (initialized, initializing,
// updating, invalidated); State is a snapshot derived from those flags for
// introspection and observability. Decisions are always made from the flags
// themselves, under the relay's lock.
type State int32

const (
	// StateEmpty indicates the relay holds no value and has not finished
	// initialization.
	StateEmpty State = iota

	// StateInitializing indicates the initial-value source is running.
	StateInitializing

	// StateReady indicates the relay is initialized and its value, if any,
	// is considered fresh.
	StateReady

	// StateStale indicates the relay holds a value that has been invalidated
	// explicitly, by the invalidator predicate, by the value itself, or by
	// TTL expiry. The next subscription triggers a refresh.
	StateStale

	// StateRefreshing indicates the update source is running. Observers keep
	// receiving the previous value until the refresh publishes.
	StateRefreshing

	// StateClosed indicates Close was called. All subscriber channels are
	// closed and in-flight work has been cancelled.
	StateClosed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	case StateRefreshing:
		return "refreshing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
