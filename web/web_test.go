package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	relay "github.com/damian-burke/stateful-relay"
)

type settings struct {
	Revision int    `json:"revision"`
	Name     string `json:"name"`
}

func newClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 0
	return client
}

func TestNew_FetchesAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"revision": 7, "name": "prod"}`))
	}))
	defer srv.Close()

	src := New[settings](newClient(), srv.URL, relay.JSONCodec{})
	v, ok, err := src(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a value")
	}
	if v.Revision != 7 || v.Name != "prod" {
		t.Errorf("unexpected value: %+v", v)
	}
}

func TestNew_NotFoundIsAbsence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := New[settings](newClient(), srv.URL, relay.JSONCodec{})
	_, ok, err := src(context.Background())
	if err != nil {
		t.Fatalf("expected absence without error, got %v", err)
	}
	if ok {
		t.Error("expected no value for 404")
	}
}

func TestNew_ServerErrorFails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := New[settings](newClient(), srv.URL, relay.JSONCodec{})
	if _, _, err := src(context.Background()); err == nil {
		t.Fatal("expected error for 500")
	}
	if hits.Load() == 0 {
		t.Error("expected the endpoint to be hit")
	}
}

func TestNew_DecodeErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	src := New[settings](newClient(), srv.URL, relay.JSONCodec{})
	if _, _, err := src(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNew_AsRelayUpdater(t *testing.T) {
	var revision atomic.Int32
	revision.Store(1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"revision": %d, "name": "prod"}`, revision.Load())
	}))
	defer srv.Close()

	src := New[settings](newClient(), srv.URL, relay.JSONCodec{})
	r := relay.New[settings](
		relay.WithInitializer(src),
		relay.WithUpdater(src),
	)
	defer r.Close()

	ctx := context.Background()
	ch := r.Observe(ctx)
	select {
	case v := <-ch:
		if v.Revision != 1 {
			t.Fatalf("expected revision 1, got %d", v.Revision)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial fetch")
	}

	revision.Store(2)
	r.Invalidate()
	r.Observe(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := r.Value(); ok && v.Revision == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected refreshed revision 2")
}
