// Package logrus adapts sirupsen/logrus to the relay.Logger interface.
package logrus

import (
	"github.com/sirupsen/logrus"

	relay "github.com/damian-burke/stateful-relay"
)

var _ relay.Logger = Logger{}

// Logger wraps a logrus.Logger.
type Logger struct{ L *logrus.Logger }

func (l Logger) Debug(msg string, f relay.Fields) { l.L.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f relay.Fields)  { l.L.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f relay.Fields)  { l.L.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f relay.Fields) { l.L.WithFields(logrus.Fields(f)).Error(msg) }
