// Package fs implements a cookie Store on a local directory, one
// tab-delimited file per jar.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"

	"rnacolumns/internal/cookie/core"
)

const fileSuffix = ".cookie"

// Store keeps each jar in <root>/<jar>.cookie. Writes replace the whole file
// through a temp file and rename, so readers never see a partial jar. The
// mutex serializes writers within one process only.
type Store struct {
	root string
	mu   sync.Mutex
}

var _ core.Store = (*Store)(nil)

// New returns a filesystem cookie store rooted at root, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./cookies"
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create cookie root: %w", err)
	}
	return &Store{root: root}, nil
}

// Driver returns the cookie driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// Root returns the storage directory.
func (s *Store) Root() string { return s.root }

func (s *Store) pathFor(jar string) (string, error) {
	if err := core.ValidateJar(jar); err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(jar)+fileSuffix), nil
}

func (s *Store) load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read jar: %w", err)
	}
	entries, err := core.DecodeJar(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}

func (s *Store) save(path string, entries map[string]string) error {
	if len(entries) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
			return fmt.Errorf("remove jar: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create jar dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp jar: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(core.EncodeJar(entries)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write jar: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync jar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close jar: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace jar: %w", err)
	}
	return nil
}

// Get returns the stored value for key.
func (s *Store) Get(_ context.Context, jar, key string) (string, bool, error) {
	path, err := s.pathFor(jar)
	if err != nil {
		return "", false, err
	}
	entries, err := s.load(path)
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Put creates or replaces key.
func (s *Store) Put(_ context.Context, jar, key, value string) error {
	path, err := s.pathFor(jar)
	if err != nil {
		return err
	}
	if err := core.ValidateEntry(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(path)
	if err != nil {
		return err
	}
	entries[key] = value
	return s.save(path, entries)
}

// Delete removes key returning true if it existed.
func (s *Store) Delete(_ context.Context, jar, key string) (bool, error) {
	path, err := s.pathFor(jar)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(path)
	if err != nil {
		return false, err
	}
	if _, ok := entries[key]; !ok {
		return false, nil
	}
	delete(entries, key)
	if err := s.save(path, entries); err != nil {
		return false, err
	}
	return true, nil
}

// Keys lists the jar's keys in ascending order.
func (s *Store) Keys(_ context.Context, jar string) ([]string, error) {
	path, err := s.pathFor(jar)
	if err != nil {
		return nil, err
	}
	entries, err := s.load(path)
	if err != nil {
		return nil, err
	}
	return core.SortedKeys(entries), nil
}
