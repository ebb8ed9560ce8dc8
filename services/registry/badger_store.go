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
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	badgerstore "github.com/AleutianAI/PeopleRegistry/services/registry/storage/badger"
	"github.com/dgraph-io/badger/v4"
)

// personPrefix namespaces record keys. The suffix is the big-endian ID,
// so Badger's key order equals ID order.
var personPrefix = []byte("person/")

// BadgerStore is a Store on an in-memory BadgerDB.
//
// Records are JSON-encoded Person values. Writes and ID allocation are
// serialized by mu; reads go straight to Badger's MVCC snapshots.
type BadgerStore struct {
	mu     sync.Mutex
	db     *badger.DB
	nextID int
}

// NewBadgerStore opens an in-memory BadgerDB and seeds it.
func NewBadgerStore(seed []Person, logger *slog.Logger) (*BadgerStore, error) {
	cfg := badgerstore.DefaultConfig()
	if logger != nil {
		cfg.Logger = logger.With("component", "badger")
	}
	db, err := badgerstore.Open(cfg)
	if err != nil {
		return nil, err
	}

	s := &BadgerStore{db: db, nextID: 1}
	if err := seedStore(s, seed); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func personKey(id int) []byte {
	key := make([]byte, len(personPrefix)+8)
	copy(key, personPrefix)
	binary.BigEndian.PutUint64(key[len(personPrefix):], uint64(id))
	return key
}

func idFromKey(key []byte) int {
	return int(binary.BigEndian.Uint64(key[len(personPrefix):]))
}

// List implements Store.
func (s *BadgerStore) List() ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = personPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var p Person
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
			entries = append(entries, Entry{ID: idFromKey(item.Key()), Person: p})
		}
		return nil
	})
	if err != nil {
		return nil, s.wrap(err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Get implements Store.
func (s *BadgerStore) Get(id int) (Person, error) {
	var p Person
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(personKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return Person{}, s.wrap(err)
	}
	return p, nil
}

// Add implements Store.
func (s *BadgerStore) Add(p Person) (int, error) {
	if err := validatePerson(p); err != nil {
		return 0, err
	}
	val, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("encode person: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(personKey(id), val)
	}); err != nil {
		return 0, s.wrap(err)
	}
	s.nextID++
	return id, nil
}

// Update implements Store.
func (s *BadgerStore) Update(id int, p Person) error {
	val, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode person: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wrap(s.db.Update(func(txn *badger.Txn) error {
		key := personKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Set(key, val)
	}))
}

// Delete implements Store.
func (s *BadgerStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wrap(s.db.Update(func(txn *badger.Txn) error {
		key := personKey(id)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	}))
}

// Len implements Store.
func (s *BadgerStore) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = personPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, s.wrap(err)
	}
	return n, nil
}

// Close implements Store. All records are discarded.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// wrap maps Badger errors onto registry sentinels.
func (s *BadgerStore) wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return ErrNotFound
	case errors.Is(err, badger.ErrDBClosed):
		return ErrStoreClosed
	default:
		return err
	}
}

var _ Store = (*BadgerStore)(nil)
