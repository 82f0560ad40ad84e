// Package planlog is this module's ambient logging layer, a trimmed
// sibling of the teacher's go.viam.com/rdk/logging package: a small
// sugared-logger interface backed by go.uber.org/zap, without the
// network appenders and remote-log-level machinery that package carries
// for a whole robot fleet. The planner core logs solve progress and
// configuration rejections through this interface rather than through
// fmt.Println, the pattern every current teacher file follows.
package planlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Logger is the sugared, leveled logger the planner core depends on.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})

	// With returns a Logger annotated with the given key/value pairs on
	// every subsequent entry.
	With(args ...interface{}) Logger
}

type sugared struct {
	*zap.SugaredLogger
}

func (s *sugared) With(args ...interface{}) Logger {
	return &sugared{s.SugaredLogger.With(args...)}
}

// NewDevelopment returns a Logger with human-readable console output
// at Debug level and above.
func NewDevelopment() Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return &sugared{l.Sugar()}
}

// NewProduction returns a Logger with structured JSON output at Info
// level and above.
func NewProduction() Logger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return &sugared{l.Sugar()}
}

// NewNop returns a Logger that discards everything, for callers that
// don't want planner progress logged at all.
func NewNop() Logger {
	return &sugared{zap.NewNop().Sugar()}
}

// NewTestLogger returns a Logger backed by an in-memory observer, so
// tests can assert on emitted log entries the way logging/testing.go
// does for the teacher's own test suite.
func NewTestLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &sugared{zap.New(core).Sugar()}, logs
}
