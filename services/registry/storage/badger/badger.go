// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package badger opens the in-memory BadgerDB instance behind the
// registry's badger store backend.
//
// The registry keeps nothing across restarts, so only in-memory mode is
// offered. Memory tables are sized down from Badger's defaults because the
// dataset is a handful of small records.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package badger

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for an in-memory BadgerDB instance.
type Config struct {
	// Logger receives BadgerDB's internal log lines.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger

	// NumVersionsToKeep is the number of versions to keep per key.
	// Default: 1.
	NumVersionsToKeep int

	// MemTableSize is the size of each memtable in bytes.
	// Default: 8 MiB.
	MemTableSize int64
}

// DefaultConfig returns defaults suited to a small record set.
func DefaultConfig() Config {
	return Config{
		NumVersionsToKeep: 1,
		MemTableSize:      8 << 20,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open creates an in-memory BadgerDB instance.
//
// # Inputs
//
//   - cfg: Database configuration. Zero fields fall back to DefaultConfig.
//
// # Outputs
//
//   - *badger.DB: The opened database. Caller must call Close() when done.
//     All data is lost on Close.
//   - error: Non-nil if the database cannot be opened.
//
// Thread Safety: The returned *badger.DB is safe for concurrent use.
func Open(cfg Config) (*badger.DB, error) {
	defaults := DefaultConfig()
	if cfg.NumVersionsToKeep <= 0 {
		cfg.NumVersionsToKeep = defaults.NumVersionsToKeep
	}
	if cfg.MemTableSize <= 0 {
		cfg.MemTableSize = defaults.MemTableSize
	}

	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithNumVersionsToKeep(cfg.NumVersionsToKeep).
		WithMemTableSize(cfg.MemTableSize)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}
