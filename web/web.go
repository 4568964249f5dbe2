// Package web provides a relay.Source backed by an HTTP endpoint, using
// hashicorp/go-retryablehttp for transport-level retries.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	relay "github.com/damian-burke/stateful-relay"
)

// New returns a source that fetches url with a GET request and decodes the
// response body with the codec. A nil client selects retryablehttp defaults.
// A 404 response is reported as absence, not an error.
func New[T any](client *retryablehttp.Client, url string, codec relay.Codec) relay.Source[T] {
	if client == nil {
		client = retryablehttp.NewClient()
		client.Logger = nil
	}
	return func(ctx context.Context) (T, bool, error) {
		var zero T

		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return zero, false, fmt.Errorf("build request for %s: %w", url, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return zero, false, fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return zero, false, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return zero, false, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return zero, false, fmt.Errorf("read body from %s: %w", url, err)
		}
		var v T
		if err := codec.Unmarshal(data, &v); err != nil {
			return zero, false, fmt.Errorf("decode body from %s: %w", url, err)
		}
		return v, true, nil
	}
}
