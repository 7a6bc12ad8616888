// Package logger provides levelled stderr logging for yieldgrab.
// Informational and warning messages are always printed; debug messages
// and section headers only appear when verbose mode is enabled via the
// --verbose flag or the log.verbose config key.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the most detailed kind of message that will be printed.
type Level int

const (
	// LevelWarn prints warnings only.
	LevelWarn Level = iota

	// LevelInfo prints warnings and informational messages.
	LevelInfo

	// LevelDebug prints everything, including section headers.
	LevelDebug
)

var (
	mu     sync.RWMutex
	level  = LevelInfo
	output io.Writer = os.Stderr
)

// SetVerbose switches between LevelDebug (true) and LevelInfo (false).
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelInfo)
}

// IsVerbose returns true if debug messages are printed.
func IsVerbose() bool {
	return CurrentLevel() >= LevelDebug
}

// SetLevel sets the logging level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// CurrentLevel returns the logging level.
func CurrentLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= LevelDebug {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message unless the level is LevelWarn.
func Info(format string, args ...any) {
	logf(LevelInfo, "[INFO] ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf(LevelWarn, "[WARN] ", format, args...)
}

func logf(threshold Level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level >= threshold {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
