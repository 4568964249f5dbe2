// Package redis provides a relay.Source backed by a Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	relay "github.com/damian-burke/stateful-relay"
)

// New returns a source that fetches the given key and decodes its value with
// the codec. A missing key is reported as absence, not an error, so a relay
// backed by this source simply stays empty until the key appears.
func New[T any](client *redis.Client, key string, codec relay.Codec) relay.Source[T] {
	return func(ctx context.Context) (T, bool, error) {
		var zero T
		data, err := client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		if err != nil {
			return zero, false, fmt.Errorf("redis get %s: %w", key, err)
		}
		var v T
		if err := codec.Unmarshal(data, &v); err != nil {
			return zero, false, fmt.Errorf("decode %s: %w", key, err)
		}
		return v, true, nil
	}
}
