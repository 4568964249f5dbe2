// Package zap adapts go.uber.org/zap to the relay.Logger interface.
package zap

import (
	"go.uber.org/zap"

	relay "github.com/damian-burke/stateful-relay"
)

var _ relay.Logger = Logger{}

// Logger wraps a zap.Logger.
type Logger struct{ L *zap.Logger }

func (z Logger) Debug(msg string, f relay.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f relay.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f relay.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f relay.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f relay.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
