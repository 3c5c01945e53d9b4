// Package statestore persists engine state as JSON documents on disk. It
// replaces the panel's localStorage: small named documents, opportunistic
// durability, and read failures that degrade to defaults instead of
// breaking the engine.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound indicates no document with the given name has been saved.
var ErrNotFound = errors.New("state document not found")

// Store reads and writes named JSON documents under a base directory.
// Writes are atomic (temp file + rename). Thread-safe.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "declutterd", "state")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk path of a named document.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save marshals v and atomically replaces the named document.
func (s *Store) Save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := s.Path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// Load unmarshals the named document into v. Returns ErrNotFound when the
// document has never been saved; callers are expected to fall back to
// defaults on any error.
func (s *Store) Load(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Delete removes the named document. Missing documents are not an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}
