// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// Active match sessions are ephemeral by design: the engine never persists
// in-progress game state, so a process restart simply drops live boards.
//
// Characteristics:
//   - Stores *match.Session objects keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Event ordering within one session is the session's own concern.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/babalugats76/quizdini-2.0-learn/internal/match"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the keeper of live play sessions.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save registers or updates a session.
	Save(ctx context.Context, s *match.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is not known.
	Get(ctx context.Context, id string) (*match.Session, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex // guards sessions map
	sessions map[string]*match.Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*match.Session)}
}

func (m *memory) Save(ctx context.Context, s *match.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*match.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}
