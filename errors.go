package relay

import "errors"

// ErrClosed is returned when attaching new work to a closed relay.
var ErrClosed = errors.New("relay is closed")

// InitError wraps a failure of the initial-value source.
// It is passed to the OnInitError callback and recorded in the error history.
type InitError struct {
	Err error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return "initialization failed: " + e.Err.Error()
}

// Unwrap returns the underlying source error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// UpdateError wraps a failure of the update source.
// It is passed to the OnUpdateError callback and recorded in the error history.
type UpdateError struct {
	Err error
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	return "update failed: " + e.Err.Error()
}

// Unwrap returns the underlying source error.
func (e *UpdateError) Unwrap() error {
	return e.Err
}
