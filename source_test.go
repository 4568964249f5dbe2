package relay

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSourceOf_AlwaysProduces(t *testing.T) {
	src := SourceOf("v1")
	v, ok, err := src(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || v != "v1" {
		t.Errorf("expected v1, got %q (ok=%v)", v, ok)
	}
}

func TestSourceFunc_AdaptsErrors(t *testing.T) {
	boom := errors.New("boom")
	src := SourceFunc(func(context.Context) (string, error) {
		return "", boom
	})
	_, ok, err := src(context.Background())
	if ok {
		t.Error("expected no value on error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestInvalidatorFunc(t *testing.T) {
	inv := InvalidatorFunc[string](func(v string) bool {
		return v == "bad"
	})
	if !inv.IsInvalidated("bad") {
		t.Error("expected match")
	}
	if inv.IsInvalidated("good") {
		t.Error("expected no match")
	}
}

func TestChain_AbsentResult(t *testing.T) {
	chain := chainOf(func(context.Context) (string, bool, error) {
		return "", false, nil
	})
	_, ok, err := runChain(context.Background(), chain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absence to propagate")
	}
}

func TestUseRetry_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	src := func(context.Context) (string, bool, error) {
		if calls.Add(1) < 3 {
			return "", false, errors.New("transient")
		}
		return "v1", true, nil
	}

	chain := chainOf(src, UseRetry[string](3))
	v, ok, err := runChain(context.Background(), chain)
	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if !ok || v != "v1" {
		t.Errorf("expected v1, got %q (ok=%v)", v, ok)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestUseRetry_ExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	src := func(context.Context) (string, bool, error) {
		calls.Add(1)
		return "", false, errors.New("permanent")
	}

	chain := chainOf(src, UseRetry[string](2))
	_, _, err := runChain(context.Background(), chain)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestUseCircuitBreaker_OpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	src := func(context.Context) (string, bool, error) {
		calls.Add(1)
		return "", false, errors.New("backend down")
	}

	chain := chainOf(src, UseCircuitBreaker[string](2, time.Minute))

	for i := 0; i < 3; i++ {
		if _, _, err := runChain(context.Background(), chain); err == nil {
			t.Fatal("expected error while backend is down")
		}
	}
	if calls.Load() != 2 {
		t.Errorf("expected open circuit to reject without calling the source, got %d calls", calls.Load())
	}
}

func TestUseFallback_TriesAlternatives(t *testing.T) {
	primary := func(context.Context) (string, bool, error) {
		return "", false, errors.New("primary down")
	}
	chain := chainOf(primary, UseFallback(SourceOf("from-fallback")))

	v, ok, err := runChain(context.Background(), chain)
	if err != nil {
		t.Fatalf("expected fallback to serve, got %v", err)
	}
	if !ok || v != "from-fallback" {
		t.Errorf("expected from-fallback, got %q (ok=%v)", v, ok)
	}
}
