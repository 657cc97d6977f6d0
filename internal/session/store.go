// Package session holds the single process-wide authentication token.
//
// The token is written through to a small JSON state file on every mutation so
// it survives gateway restarts, mirroring the invariant that the in-memory and
// persisted values are always equal.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// state is the on-disk representation of the session.
type state struct {
	Token string `json:"token"`
}

// Store is the process-wide session store. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	path   string
	token  string
	loaded bool
	subs   []func(token string)
}

// New creates a store persisting to the given file path. The file is read
// lazily on first token access.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the per-user default location of the session file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "doc-sign-web", "session.json"), nil
}

// Token returns the current token, or an empty string when logged out.
// The persisted state is restored on first access.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.token
}

// Active reports whether a session token is present.
func (s *Store) Active() bool {
	return s.Token() != ""
}

// Login stores the token in memory and on disk. The token contents are not
// validated; the backend is the only authority on token validity.
func (s *Store) Login(token string) error {
	s.mu.Lock()
	s.loaded = true
	s.token = token
	err := s.persistLocked()
	subs := append([]func(string){}, s.subs...)
	s.mu.Unlock()

	s.notify(subs, token)
	return err
}

// Logout clears the token from memory and disk. Clearing an already-empty
// session is a no-op for subscribers.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.loadLocked()
	if s.token == "" {
		s.mu.Unlock()
		return nil
	}
	s.token = ""
	err := s.persistLocked()
	subs := append([]func(string){}, s.subs...)
	s.mu.Unlock()

	s.notify(subs, "")
	return err
}

// Subscribe registers a callback invoked with the new token after every
// login/logout. Consumers read a snapshot and re-evaluate on change.
func (s *Store) Subscribe(fn func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(subs []func(string), token string) {
	for _, fn := range subs {
		fn(token)
	}
}

// loadLocked restores persisted state once. A missing or unreadable file
// simply means no session.
func (s *Store) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return
	}
	s.token = st.Token
}

func (s *Store) persistLocked() error {
	if s.token == "" {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove session file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(state{Token: s.token})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
