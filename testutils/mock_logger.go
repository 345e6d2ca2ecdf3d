package testutils

import (
	"sync"

	"github.com/JMitchell7425/Trading-Bot/logger"
)

// logEntry captures a single log invocation for inspection in tests.
type logEntry struct {
	level  string
	msg    string
	fields []logger.Field
}

// MockLogger implements the Logger interface but stores entries in-memory.
type MockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

// NewMockLogger returns a logger that records everything.
func NewMockLogger() *MockLogger { return &MockLogger{} }

func (l *MockLogger) record(level, msg string, fields ...logger.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := append([]logger.Field(nil), fields...)
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: copied})
}

func (l *MockLogger) Info(msg string, fields ...logger.Field)  { l.record("info", msg, fields...) }
func (l *MockLogger) Warn(msg string, fields ...logger.Field)  { l.record("warn", msg, fields...) }
func (l *MockLogger) Error(msg string, fields ...logger.Field) { l.record("error", msg, fields...) }

// LastMessage returns the message of the most recent entry.
func (l *MockLogger) LastMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1].msg
}

// Messages returns every recorded message, oldest first.
func (l *MockLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.msg
	}
	return out
}

// HasMessage reports whether msg was logged at any level.
func (l *MockLogger) HasMessage(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return true
		}
	}
	return false
}
