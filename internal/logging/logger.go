// Package logging provides the leveled printf-style logger used across the
// pipeline.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger is an interface for logging.
// Implementations can use different logging backends.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// StdLogger writes "[LEVEL] run=<id> message" lines to every sink.
type StdLogger struct {
	mu    sync.Mutex
	level Level
	runID string
	sinks []io.Writer
}

// New creates a logger. Messages below level are dropped.
func New(level Level, runID string, sinks ...io.Writer) *StdLogger {
	return &StdLogger{level: level, runID: runID, sinks: sinks}
}

func (l *StdLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *StdLogger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *StdLogger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *StdLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

func (l *StdLogger) log(level Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	line := fmt.Sprintf("[%s] ", level)
	if l.runID != "" {
		line += "run=" + l.runID + " "
	}
	line += fmt.Sprintf(msg, args...) + "\n"

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.sinks {
		// logging must never fail the run
		_, _ = io.WriteString(w, line)
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...interface{}) {}
func (Nop) Info(string, ...interface{})  {}
func (Nop) Warn(string, ...interface{})  {}
func (Nop) Error(string, ...interface{}) {}
