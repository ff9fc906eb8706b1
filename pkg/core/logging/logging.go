// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     logging
// Description: Component loggers with structured key-value fields
// Author:      rdittrich
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	root     = logrus.New()
	rootOnce sync.Once

	loggers   = make(map[string]*Logger)
	loggersMu sync.Mutex
)

// Logger is a named component logger. Messages accept alternating
// key-value pairs after the message, e.g.
//
//	log.Info("job submitted", "id", jobID, "elapsed", d)
type Logger struct {
	entry *logrus.Entry
	name  string
}

func initRoot() {
	rootOnce.Do(func() {
		root.SetOutput(os.Stderr)
		root.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})

		level := os.Getenv("RECAP_LOG_LEVEL")
		if level == "" {
			level = "info"
		}
		if parsed, err := logrus.ParseLevel(level); err == nil {
			root.SetLevel(parsed)
		}
	})
}

// New returns the logger for a component, creating it on first use.
func New(name string) *Logger {
	initRoot()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[name]; ok {
		return l
	}

	l := &Logger{
		entry: root.WithField("component", name),
		name:  name,
	}
	loggers[name] = l
	return l
}

// SetLevel overrides the log level for all component loggers.
func SetLevel(level string) {
	initRoot()
	if parsed, err := logrus.ParseLevel(level); err == nil {
		root.SetLevel(parsed)
	}
}

// SetOutput redirects all log output, e.g. to a file or io.Discard while
// a TUI owns the terminal.
func SetOutput(w io.Writer) {
	initRoot()
	root.SetOutput(w)
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Debug(msg)
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Info(msg)
}

// Warn logs a warning with optional key-value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Warn(msg)
}

// Error logs an error with optional key-value pairs.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues...)).Error(msg)
}

// toFields converts alternating key-value pairs to logrus fields.
// Non-string keys and trailing values without a key are skipped.
func toFields(keysAndValues ...interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
