// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package logging provides structured logging for the people registry.
//
// The logger is a thin layer over Go's log/slog package. It adds:
//
//   - Level parsing from configuration strings ("debug", "info", ...)
//   - Format selection: text, JSON, or auto (text on a terminal, JSON otherwise)
//   - A "service" attribute on every record
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    Service: "people-registry",
//	})
//	logger.Info("record added", "id", 4)
//
// # Thread Safety
//
// Logger is safe for concurrent use. The underlying slog.Logger is
// thread-safe and Logger holds no mutable state of its own.
//
// # Security Considerations
//
// This package does NOT redact anything. Never pass the secret key or
// raw form payloads as attributes.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity levels.
//
// Levels are ordered by severity: Debug < Info < Warn < Error.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for recoverable problems (rejected input, fallbacks).
	LevelWarn

	// LevelError is for failed operations.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel converts our Level to slog.Level.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a configuration string into a Level.
//
// # Inputs
//
//   - s: Case-insensitive level name. "warning" is accepted as an alias
//     for "warn". Empty string means LevelInfo.
//
// # Outputs
//
//   - Level: The parsed level.
//   - error: Non-nil if s is not a known level name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// =============================================================================
// Output Format
// =============================================================================

// Format selects the handler used for log output.
type Format string

const (
	// FormatAuto picks text when the output is a terminal and JSON otherwise.
	FormatAuto Format = "auto"

	// FormatText writes human-readable key=value lines.
	FormatText Format = "text"

	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
)

// ParseFormat converts a configuration string into a Format.
// Empty string means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q", s)
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures the Logger behavior.
//
// A zero-value Config creates a logger that writes Debug+ messages to
// stderr, formatted according to whether stderr is a terminal.
type Config struct {
	// Level sets the minimum log level. Default: LevelDebug (zero value).
	Level Level

	// Service is attached to every record as the "service" attribute.
	// Default: "" (no service attribute).
	Service string

	// Format selects text or JSON output. Default: FormatAuto.
	Format Format

	// Output is the destination writer. Default: os.Stderr.
	Output io.Writer
}

// =============================================================================
// Logger
// =============================================================================

// Logger provides structured logging on top of slog.
//
// Use With() to derive request-scoped loggers:
//
//	reqLogger := logger.With("request_id", reqID)
//	reqLogger.Info("processing")
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a new Logger with the given configuration.
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	var handler slog.Handler
	if useJSON(config.Format, out) {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", config.Service),
		})
	}

	return &Logger{
		slog:   slog.New(handler),
		config: config,
	}
}

// Default returns an Info-level logger writing to stderr with service
// "people-registry".
func Default() *Logger {
	return New(Config{
		Level:   LevelInfo,
		Service: "people-registry",
	})
}

// Debug logs a message at Debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs a message at Info level.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a message at Warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs a message at Error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a new Logger with additional attributes.
// The parent logger is not modified.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// Slog returns the underlying slog.Logger, for libraries that take one
// directly (gin middleware, badger adapter).
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// useJSON resolves the effective output format.
//
// FormatAuto only yields text when out is an *os.File attached to a
// terminal. Buffers, pipes and files get JSON.
func useJSON(format Format, out io.Writer) bool {
	switch format {
	case FormatJSON:
		return true
	case FormatText:
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return true
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
