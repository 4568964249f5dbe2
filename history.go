package relay

import "sync"

// errorHistory retains the most recent source failures in a fixed-size ring.
// A nil history (capacity 0) is valid and records nothing.
type errorHistory struct {
	mu    sync.RWMutex
	ring  []error
	next  int
	count int
}

func newErrorHistory(capacity int) *errorHistory {
	if capacity <= 0 {
		return nil
	}
	return &errorHistory{ring: make([]error, capacity)}
}

func (h *errorHistory) record(err error) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ring[h.next] = err
	h.next = (h.next + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
}

func (h *errorHistory) reset() {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := range h.ring {
		h.ring[i] = nil
	}
	h.next = 0
	h.count = 0
}

// recent returns the retained errors, oldest first.
func (h *errorHistory) recent() []error {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return nil
	}
	out := make([]error, h.count)
	first := (h.next - h.count + len(h.ring)) % len(h.ring)
	for i := range out {
		out[i] = h.ring[(first+i)%len(h.ring)]
	}
	return out
}
