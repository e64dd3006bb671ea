// Package logger is a small logging indirection shared by the group and
// element packages: callers set a process-wide Logger once via WithLogger,
// and by default log output is discarded.
package logger

import "go.uber.org/zap"

// Logger is the minimal contract the children-group packages log through.
// Keeping it this small means any of the logging packages already common in
// the ecosystem can satisfy it with a one-line adapter.
type Logger interface {
	// Debugw logs a debug-level line with structured key/value pairs.
	Debugw(msg string, kv ...any)
	// Infow logs an info-level line with structured key/value pairs.
	Infow(msg string, kv ...any)
	// Errorw logs an error-level line with structured key/value pairs.
	Errorw(msg string, kv ...any)
}

var current Logger = nopLogger{}

// WithLogger sets the process-wide Logger. Passing nil restores the no-op
// default.
func WithLogger(l Logger) {
	if l == nil {
		current = nopLogger{}
		return
	}
	current = l
}

// Get returns the currently configured Logger.
func Get() Logger {
	return current
}

type nopLogger struct{}

func (nopLogger) Debugw(string, ...any) {}
func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Errorw(string, ...any) {}

// zapLogger adapts *zap.SugaredLogger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZap adapts a *zap.Logger into a Logger.
func NewZap(z *zap.Logger) Logger {
	return &zapLogger{s: z.Sugar()}
}

func (z *zapLogger) Debugw(msg string, kv ...any) { z.s.Debugw(msg, kv...) }
func (z *zapLogger) Infow(msg string, kv ...any)  { z.s.Infow(msg, kv...) }
func (z *zapLogger) Errorw(msg string, kv ...any) { z.s.Errorw(msg, kv...) }

// NewNop returns the no-op Logger explicitly, for tests that want to
// restore the default after installing a spy.
func NewNop() Logger {
	return nopLogger{}
}
