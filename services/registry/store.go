// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"fmt"
	"log/slog"
)

// Store backend names accepted by NewStore.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Store is the record store: an ID -> Person mapping plus its ID
// allocation policy.
//
// # ID Allocation
//
// IDs start after the seed and increase by one per successful Add. They
// are never reused within the store's lifetime, even after Delete.
//
// # Thread Safety
//
// Implementations are safe for concurrent use. Each guards its state
// with a single mutex so concurrent adds get distinct, increasing IDs.
type Store interface {
	// List returns all entries in ascending ID order, which is insertion
	// order. It has no side effects.
	List() ([]Entry, error)

	// Get returns the record for id, or ErrNotFound.
	Get(id int) (Person, error)

	// Add validates p (name non-empty, age > 0), allocates the next ID and
	// inserts the record. On validation failure nothing changes and the
	// error wraps ErrValidation.
	Add(p Person) (int, error)

	// Update overwrites every field of the record for id. It does not
	// re-validate. Returns ErrNotFound if id is absent.
	Update(id int, p Person) error

	// Delete removes the record for id. Returns ErrNotFound if id is absent.
	Delete(id int) error

	// Len returns the number of records.
	Len() (int, error)

	// Close releases resources. The store is unusable afterwards.
	Close() error
}

// NewStore creates a store of the named backend, seeded with seed.
//
// # Inputs
//
//   - backend: BackendMemory or BackendBadger. Empty means BackendMemory.
//   - seed: Initial records, assigned IDs 1..len(seed) in order. Every
//     seed record must pass Add validation.
//   - logger: Used by the badger backend. May be nil.
//
// # Outputs
//
//   - Store: The seeded store. Caller must Close it.
//   - error: ErrUnknownBackend, ErrInvalidSeed, or a backend open error.
func NewStore(backend string, seed []Person, logger *slog.Logger) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryStore(seed)
	case BackendBadger:
		return NewBadgerStore(seed, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// seedStore adds each seed record in order.
func seedStore(s Store, seed []Person) error {
	for i, p := range seed {
		if _, err := s.Add(p); err != nil {
			return fmt.Errorf("%w: record %d: %v", ErrInvalidSeed, i+1, err)
		}
	}
	return nil
}
