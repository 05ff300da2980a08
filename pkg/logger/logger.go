// Package logger provides the logging interface shared by the termseq
// player, script loader and RPC host.
package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Logger is the logging surface every long-lived termseq component takes.
type Logger interface {
	// Info logs an informational message (e.g. "sequence 3 started").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem (e.g. "stale event dropped").
	Warning(format string, args ...interface{})

	// Error logs a failure (e.g. "handler panicked").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger.
	// Safe to call multiple times.
	Close() error
}

// New returns a StandardLogger writing to w when debug is set and a
// NopLogger otherwise. The CLI uses it to honour --debug.
func New(debug bool, w io.Writer) Logger {
	if !debug {
		return NewNopLogger()
	}
	return NewStandardLogger(log.New(w, "termseq: ", log.LstdFlags|log.Lmicroseconds))
}

// StandardLogger wraps a *log.Logger.
type StandardLogger struct {
	logger *log.Logger
}

// NewStandardLogger creates a logger that wraps the given *log.Logger.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs a warning message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op for StandardLogger.
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// prefixLogger prepends a component name to every message.
type prefixLogger struct {
	Logger
	prefix string
}

// WithPrefix returns a Logger that prepends "prefix: " to every message
// before handing it to l.
func WithPrefix(l Logger, prefix string) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return &prefixLogger{Logger: l, prefix: prefix + ": "}
}

func (p *prefixLogger) Info(format string, args ...interface{}) {
	p.Logger.Info(p.prefix+format, args...)
}

func (p *prefixLogger) Warning(format string, args ...interface{}) {
	p.Logger.Warning(p.prefix+format, args...)
}

func (p *prefixLogger) Error(format string, args ...interface{}) {
	p.Logger.Error(p.prefix+format, args...)
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*prefixLogger)(nil)
)

// MockLogger records every call for assertions in tests. It is safe for
// concurrent use since players log from their own goroutine.
type MockLogger struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errors   []string
	closed   bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Infos returns a copy of the recorded info messages.
func (m *MockLogger) Infos() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.infos...)
}

// Warnings returns a copy of the recorded warning messages.
func (m *MockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warnings...)
}

// Errors returns a copy of the recorded error messages.
func (m *MockLogger) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errors...)
}

// Closed reports whether Close was called.
func (m *MockLogger) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

var _ Logger = (*MockLogger)(nil)
