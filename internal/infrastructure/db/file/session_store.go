package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reelnotes/reelnotes/internal/core/domain"
	"github.com/reelnotes/reelnotes/internal/core/ports"
)

const sessionFile = "session.json"

// SessionStore persists the session as a JSON object in a single file that
// only the current user can read.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates dir if needed and stores the session in
// dir/session.json.
func NewSessionStore(dir string) (*SessionStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &SessionStore{path: filepath.Join(dir, sessionFile)}, nil
}

// DefaultDir returns ~/.reelnotes.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".reelnotes"), nil
}

// Path is the file backing the store.
func (s *SessionStore) Path() string { return s.path }

// Get fails with domain.ErrCorruptSession when the file cannot be decoded.
func (s *SessionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *SessionStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if errors.Is(err, domain.ErrCorruptSession) {
		values = map[string]string{}
	} else if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete removes keys; the file itself is removed once it holds nothing or
// can no longer be decoded.
func (s *SessionStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if errors.Is(err, domain.ErrCorruptSession) {
		return s.remove()
	}
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	if len(values) == 0 {
		return s.remove()
	}
	return s.save(values)
}

func (s *SessionStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *SessionStore) load() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode session file: %w: %w", domain.ErrCorruptSession, err)
	}
	return values, nil
}

func (s *SessionStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
