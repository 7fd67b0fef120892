// Package logging provides subsystem-prefixed operational logging for
// dayplan. Debug output is enabled with DEBUG=true.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

var (
	mu           sync.Mutex
	logger       = log.New(os.Stderr, "", log.LstdFlags)
	debugEnabled = os.Getenv("DEBUG") == "true"
)

// SetOutput redirects all log output. Tests use it to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// SetDebug toggles debug output at runtime.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// Info logs an informational message (always shown).
func Info(subsystem, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
}

// Warn logs a message about a recoverable failure.
func Warn(subsystem, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Printf("[%s] WARN "+format, append([]any{subsystem}, args...)...)
}

// Debug logs a debug message (only shown if DEBUG=true).
func Debug(subsystem, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if debugEnabled {
		logger.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
	}
}

// Truncate shortens s to maxLen runes on a single line, adding an ellipsis.
func Truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
