// Package session holds the authenticated user identity and tokens for the
// current pptpro session. State is persisted as a JSON file under the state
// directory so it survives restarts, mirroring the lifecycle
// initialize-from-storage / set / clear. There is no proactive token refresh:
// expiry is only observed reactively when the API layer sees a 401.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// User is the backend user identity.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// State is the persisted session snapshot.
type State struct {
	User          *User  `json:"user"`
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	Authenticated bool   `json:"authenticated"`
}

// Store manages the session state with file persistence.
// All access is from the single UI thread of control; the mutex guards the
// rare case of background tea.Cmd goroutines reading the token concurrently.
type Store struct {
	mu     sync.RWMutex
	path   string
	state  State
	logger *zap.Logger
}

// NewStore creates a session store backed by the given file path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Load initializes the store from the persisted file. A missing file is a
// clean logged-out state. A corrupt file is logged and discarded rather than
// failing startup.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.state = State{}
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("Discarding corrupt session file", zap.String("path", s.path), zap.Error(err))
		s.state = State{}
		return nil
	}

	s.state = st
	return nil
}

// SetAuth establishes an authenticated session and persists it.
func (s *Store) SetAuth(user *User, accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{
		User:          user,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Authenticated: true,
	}
	return s.persistLocked()
}

// ClearAuth wipes the session and persists the logged-out state.
func (s *Store) ClearAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	return s.persistLocked()
}

// UpdateUser replaces the user identity without touching tokens.
func (s *Store) UpdateUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.User = user
	return s.persistLocked()
}

// persistLocked writes the current state to disk. Caller holds the lock.
func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Tokens live in this file; keep it private to the user.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// User returns the current user identity, or nil when logged out.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User
}

// AccessToken returns the bearer token, or "" when logged out.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

// RefreshToken returns the refresh token, or "" when logged out.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RefreshToken
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
