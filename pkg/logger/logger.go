// Package logger provides the process-wide zerolog logger for txclient.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the logging level.
type Level = zerolog.Level

// Log levels.
const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
	LevelNone  = zerolog.Disabled
)

// Format selects the output encoding.
type Format string

// Output formats.
const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

const component = "txclient"

var (
	mu            sync.RWMutex
	defaultLogger = New(os.Stderr, LevelInfo, FormatConsole)
)

// Default returns the default logger.
func Default() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// New creates a logger writing to output at the given level.
func New(output io.Writer, level Level, format Format) zerolog.Logger {
	w := output
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ParseLevel converts a level name to a Level. "none" and "off" map to
// LevelNone; an empty string maps to LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelInfo, nil
	case "none", "off":
		return LevelNone, nil
	}
	return zerolog.ParseLevel(strings.ToLower(s))
}

// Disable disables all logging on the default logger.
func Disable() {
	SetDefault(zerolog.Nop())
}
