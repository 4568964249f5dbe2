package relay

import "sync"

// Policy controls what happens when a subscriber is slower than the relay
// publishes.
type Policy int

const (
	// Latest keeps only the newest pending value for a slow subscriber.
	// Older pending values are replaced. This is the default.
	Latest Policy = iota

	// Drop discards new values for a subscriber whose buffer is full.
	Drop
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case Latest:
		return "latest"
	case Drop:
		return "drop"
	default:
		return "unknown"
	}
}

// defaultBuffer is the subscriber channel capacity for the Drop policy.
const defaultBuffer = 16

// Behavior is a latest-value broadcast store: it holds the most recently
// published value and republishes it to all current subscribers. A new
// subscriber synchronously receives the latest value if one is present,
// then receives subsequent publishes in order.
//
// Behavior is the storage and fan-out substrate of Relay, but is usable on
// its own. All methods are safe for concurrent use. Publishing never blocks:
// delivery to slow subscribers is governed by each subscriber's Policy.
type Behavior[T any] struct {
	mu     sync.Mutex
	value  *T
	subs   map[uint64]*subscriber[T]
	nextID uint64
	closed bool
}

type subscriber[T any] struct {
	ch     chan T
	policy Policy
}

// NewBehavior creates an empty latest-value store.
func NewBehavior[T any]() *Behavior[T] {
	return &Behavior[T]{
		subs: make(map[uint64]*subscriber[T]),
	}
}

// Publish stores v as the current value and delivers it to all current
// subscribers. Publishing on a closed store is a no-op.
func (b *Behavior[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.value = &v
	for _, s := range b.subs {
		s.send(v)
	}
}

// send delivers v without blocking. Called with the store lock held.
func (s *subscriber[T]) send(v T) {
	select {
	case s.ch <- v:
		return
	default:
	}

	if s.policy == Drop {
		return
	}

	// Latest: displace one pending value, then retry. The subscriber is the
	// only reader, so at most one more drain is ever needed.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

// HasValue reports whether a value has been published.
func (b *Behavior[T]) HasValue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value != nil
}

// Value returns the current value and true, or the zero value and false if
// nothing has been published yet.
func (b *Behavior[T]) Value() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.value == nil {
		var zero T
		return zero, false
	}
	return *b.value, true
}

// Subscribe registers a new subscriber and returns its channel together with
// a cancel function. If a value is present it is already in the channel when
// Subscribe returns. The channel is closed by cancel or by Close. Cancel is
// idempotent.
//
// A buffer of 0 selects the policy's default capacity (1 for Latest,
// defaultBuffer for Drop).
func (b *Behavior[T]) Subscribe(policy Policy, buffer int) (<-chan T, func()) {
	b.mu.Lock()

	if b.closed {
		b.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return ch, func() {}
	}

	if buffer <= 0 {
		if policy == Latest {
			buffer = 1
		} else {
			buffer = defaultBuffer
		}
	}

	id := b.nextID
	b.nextID++
	sub := &subscriber[T]{
		ch:     make(chan T, buffer),
		policy: policy,
	}
	b.subs[id] = sub
	if b.value != nil {
		sub.ch <- *b.value
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
	}
	return sub.ch, cancel
}

// Observers returns the number of current subscribers.
func (b *Behavior[T]) Observers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes all subscriber channels and rejects further publishes and
// subscriptions. The current value remains readable. Idempotent.
func (b *Behavior[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, s := range b.subs {
		delete(b.subs, id)
		close(s.ch)
	}
}
