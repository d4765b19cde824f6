// Package logging contains the structured logger used by the derive, create and cli packages.
//
// A Logger writes zap entries to a list of appenders. The CLI builds a blank logger with a single
// console appender on its error stream; tests use the observed logger to assert on warnings.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// GlobalLogLevel switches every logger to debug output when set to debug, regardless of the level
// of the individual logger. The CLI sets it from --debug or the settings file.
var GlobalLogLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

// NewBlankLogger returns a logger at debug level that writes nowhere until an appender is added.
// Entries are stamped in UTC.
func NewBlankLogger(name string) Logger {
	return &impl{name: name, level: NewAtomicLevelAt(DEBUG), inUTC: true}
}

// NewTestLogger returns a debug logger that writes to tb.
func NewTestLogger(tb testing.TB) Logger {
	logger, _ := NewObservedTestLogger(tb)
	return logger
}

// NewObservedTestLogger is like NewTestLogger but also records every entry so tests can assert on
// what was logged.
func NewObservedTestLogger(tb testing.TB) (Logger, *observer.ObservedLogs) {
	logger := &impl{level: NewAtomicLevelAt(DEBUG)}
	logger.AddAppender(NewTestAppender(tb))

	core, logs := observer.New(zap.LevelEnablerFunc(zapcore.DebugLevel.Enabled))
	logger.AddAppender(core)
	return logger, logs
}
