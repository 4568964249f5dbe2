package relay

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// FileSource returns a Source that reads the file at path and decodes it with
// the given codec. Use it as an initializer or updater for file-backed
// configuration values.
func FileSource[T any](path string, codec Codec) Source[T] {
	return func(context.Context) (T, bool, error) {
		var zero T
		data, err := os.ReadFile(path)
		if err != nil {
			return zero, false, fmt.Errorf("read %s: %w", path, err)
		}
		var v T
		if err := codec.Unmarshal(data, &v); err != nil {
			return zero, false, fmt.Errorf("decode %s: %w", path, err)
		}
		return v, true, nil
	}
}

// WatchFile invalidates the relay whenever the file at path is written or
// recreated, until ctx is cancelled. Combined with a FileSource updater this
// turns the relay into a file-change-driven cache: the write marks the value
// stale, and the next subscription re-reads the file.
func WatchFile[T any](ctx context.Context, path string, r *Relay[T]) error {
	if r.State() == StateClosed {
		return ErrClosed
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch file %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					r.Invalidate()
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient; keep watching.
			}
		}
	}()
	return nil
}
