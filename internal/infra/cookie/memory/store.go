// Package memory implements an in-memory cookie Store for tests.
package memory

import (
	"context"
	"sync"

	"rnacolumns/internal/cookie/core"
)

// Store implements core.Store backed by process memory. Intended for tests.
type Store struct {
	mu   sync.RWMutex
	jars map[string]map[string]string
}

var _ core.Store = (*Store)(nil)

// New returns an in-memory cookie store.
func New() *Store { return &Store{jars: make(map[string]map[string]string)} }

// Driver returns the cookie driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns the stored value for key.
func (s *Store) Get(_ context.Context, jar, key string) (string, bool, error) {
	if err := core.ValidateJar(jar); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.jars[jar][key]
	return v, ok, nil
}

// Put creates or replaces key.
func (s *Store) Put(_ context.Context, jar, key, value string) error {
	if err := core.ValidateJar(jar); err != nil {
		return err
	}
	if err := core.ValidateEntry(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.jars[jar]
	if !ok {
		entries = make(map[string]string)
		s.jars[jar] = entries
	}
	entries[key] = value
	return nil
}

// Delete removes key returning true if it existed.
func (s *Store) Delete(_ context.Context, jar, key string) (bool, error) {
	if err := core.ValidateJar(jar); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.jars[jar]
	if _, ok := entries[key]; !ok {
		return false, nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(s.jars, jar)
	}
	return true, nil
}

// Keys lists the jar's keys in ascending order.
func (s *Store) Keys(_ context.Context, jar string) ([]string, error) {
	if err := core.ValidateJar(jar); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.SortedKeys(s.jars[jar]), nil
}
