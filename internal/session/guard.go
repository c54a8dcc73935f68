package session

import (
	"errors"
	"sync"
)

// ErrNotAuthenticated is returned by the guard when no user is logged in.
var ErrNotAuthenticated = errors.New("not authenticated: run 'pptpro login' first")

// Guard gates access to protected commands and views. It records the origin
// of the last blocked access; callers can read it via From after a login to
// tell the user where they were headed. Nothing auto-resumes.
type Guard struct {
	mu    sync.Mutex
	store *Store
	from  string
}

// NewGuard creates a guard over the given session store.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Require checks authentication before entering the named command or view.
// On failure the origin is recorded and ErrNotAuthenticated returned.
func (g *Guard) Require(from string) error {
	if g.store.IsAuthenticated() {
		return nil
	}
	g.mu.Lock()
	g.from = from
	g.mu.Unlock()
	return ErrNotAuthenticated
}

// From returns the origin of the most recently blocked access, if any.
func (g *Guard) From() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.from
}
