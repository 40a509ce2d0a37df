// Package testutil provides shared helpers for AgriMat package tests.
package testutil

import (
	"strings"
	"sync"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
)

// LogEntry is one entry captured by RecordingLogger.
type LogEntry struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// Field returns the value of the named field, or nil.
func (e LogEntry) Field(key string) interface{} {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// RecordingLogger implements logging.Logger and keeps every entry in memory.
// Children created by With and Named write to the same sink.
type RecordingLogger struct {
	sink   *logSink
	name   string
	fields []logging.Field
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &logSink{}}
}

func (l *RecordingLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	l.sink.mu.Lock()
	l.sink.entries = append(l.sink.entries, LogEntry{Level: level, Logger: l.name, Message: msg, Fields: all})
	l.sink.mu.Unlock()
}

func (l *RecordingLogger) Debug(msg string, fields ...logging.Field) { l.log("debug", msg, fields) }
func (l *RecordingLogger) Info(msg string, fields ...logging.Field)  { l.log("info", msg, fields) }
func (l *RecordingLogger) Warn(msg string, fields ...logging.Field)  { l.log("warn", msg, fields) }
func (l *RecordingLogger) Error(msg string, fields ...logging.Field) { l.log("error", msg, fields) }

// Fatal records the entry without exiting.
func (l *RecordingLogger) Fatal(msg string, fields ...logging.Field) { l.log("fatal", msg, fields) }

func (l *RecordingLogger) With(fields ...logging.Field) logging.Logger {
	child := *l
	child.fields = append(append([]logging.Field{}, l.fields...), fields...)
	return &child
}

func (l *RecordingLogger) Named(name string) logging.Logger {
	child := *l
	if l.name == "" {
		child.name = name
	} else {
		child.name = l.name + "." + name
	}
	return &child
}

// Entries returns a copy of everything logged so far.
func (l *RecordingLogger) Entries() []LogEntry {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	out := make([]LogEntry, len(l.sink.entries))
	copy(out, l.sink.entries)
	return out
}

// Find returns the first entry at level whose message contains substr.
func (l *RecordingLogger) Find(level, substr string) (LogEntry, bool) {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return e, true
		}
	}
	return LogEntry{}, false
}

// Reset drops all entries.
func (l *RecordingLogger) Reset() {
	l.sink.mu.Lock()
	l.sink.entries = nil
	l.sink.mu.Unlock()
}
