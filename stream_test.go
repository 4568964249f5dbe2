package relay

import (
	"context"
	"testing"
	"time"
)

func TestObserve_FilterDeliversMatchesOnly(t *testing.T) {
	r := New[int]()
	defer r.Close()

	ch := r.Observe(context.Background(),
		ObservePolicy[int](Drop),
		ObserveBuffer[int](8),
		ObserveFilter(func(v int) bool { return v%2 == 0 }),
	)

	r.store.Publish(1)
	r.store.Publish(2)
	r.store.Publish(3)
	r.store.Publish(4)

	for _, want := range []int{2, 4} {
		select {
		case got := <-ch:
			if got != want {
				t.Fatalf("expected %d, got %d", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %d", want)
		}
	}
}

func TestObserve_ContextCancelClosesChannel(t *testing.T) {
	r := New[string](WithInitialValue[string]("v1"))
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := r.Observe(ctx)

	select {
	case v := <-ch:
		if v != "v1" {
			t.Errorf("expected v1, got %s", v)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial value")
	}

	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("expected channel to close after context cancel")
		}
	}
}

func TestObserve_PerSubscriptionPolicyOverride(t *testing.T) {
	r := New[int](WithOverflow[int](Latest))
	defer r.Close()

	ch := r.Observe(context.Background(), ObservePolicy[int](Drop), ObserveBuffer[int](2))

	r.store.Publish(1)
	r.store.Publish(2)
	r.store.Publish(3) // dropped: buffer of 2 is full

	if got := <-ch; got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := <-ch; got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	select {
	case got := <-ch:
		t.Fatalf("expected 3 to be dropped, got %d", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPolicy_String(t *testing.T) {
	if Latest.String() != "latest" {
		t.Errorf("expected latest, got %s", Latest.String())
	}
	if Drop.String() != "drop" {
		t.Errorf("expected drop, got %s", Drop.String())
	}
	if Policy(99).String() != "unknown" {
		t.Errorf("expected unknown, got %s", Policy(99).String())
	}
}
