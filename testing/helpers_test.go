package relaytest

import (
	"context"
	"errors"
	"testing"
	"time"

	relay "github.com/damian-burke/stateful-relay"
)

func TestCountingSource_ProducesValue(t *testing.T) {
	src := &CountingSource[string]{Value: "v1"}

	v, ok, err := src.Source()(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "v1" {
		t.Errorf("expected v1, got %q (ok=%v)", v, ok)
	}
	if src.Calls() != 1 {
		t.Errorf("expected 1 call, got %d", src.Calls())
	}
}

func TestCountingSource_Err(t *testing.T) {
	boom := errors.New("boom")
	src := &CountingSource[string]{Err: boom}

	_, ok, err := src.Source()(context.Background())
	if ok {
		t.Error("expected no value")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestCountingSource_DelayRespectsContext(t *testing.T) {
	src := &CountingSource[string]{Value: "v1", Delay: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := src.Source()(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestHelpers_WithRelay(t *testing.T) {
	src := &CountingSource[string]{Value: "v1"}
	r := relay.New[string](relay.WithInitializer(src.Source()))
	defer r.Close()

	r.Observe(context.Background())

	if !WaitForState(t, r, relay.StateReady, time.Second) {
		t.Fatal("expected relay to become ready")
	}
	RequireState(t, r, relay.StateReady)
	RequireValue(t, r, func(v string) bool { return v == "v1" })
}
