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
	"slices"
	"sync"
)

// MemoryStore is a map-backed Store.
//
// Insertion order is tracked in a slice of IDs. Since IDs only grow,
// that slice is also sorted, which keeps List and Delete simple.
type MemoryStore struct {
	mu     sync.Mutex
	people map[int]Person
	order  []int
	nextID int
	closed bool
}

// NewMemoryStore creates a MemoryStore seeded with seed.
func NewMemoryStore(seed []Person) (*MemoryStore, error) {
	s := &MemoryStore{
		people: make(map[int]Person, len(seed)),
		order:  make([]int, 0, len(seed)),
		nextID: 1,
	}
	if err := seedStore(s, seed); err != nil {
		return nil, err
	}
	return s, nil
}

// List implements Store.
func (s *MemoryStore) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	entries := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, Entry{ID: id, Person: s.people[id]})
	}
	return entries, nil
}

// Get implements Store.
func (s *MemoryStore) Get(id int) (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Person{}, ErrStoreClosed
	}

	p, ok := s.people[id]
	if !ok {
		return Person{}, ErrNotFound
	}
	return p, nil
}

// Add implements Store.
func (s *MemoryStore) Add(p Person) (int, error) {
	if err := validatePerson(p); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	id := s.nextID
	s.nextID++
	s.people[id] = p
	s.order = append(s.order, id)
	return id, nil
}

// Update implements Store.
func (s *MemoryStore) Update(id int, p Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.people[id]; !ok {
		return ErrNotFound
	}
	s.people[id] = p
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.people[id]; !ok {
		return ErrNotFound
	}
	delete(s.people, id)
	if i, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// Len implements Store.
func (s *MemoryStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return len(s.people), nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.people = nil
	s.order = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
