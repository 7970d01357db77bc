// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live hangman sessions keyed by slot; the server currently uses a
// single slot, so starting a game replaces the previous one.
//
// Characteristics:
//   - Stores *game.Session values keyed by slot in a map.
//   - Concurrency-safe via RWMutex: View callbacks share the read lock,
//     Update callbacks hold the write lock for their whole duration, so
//     mutations of a session never interleave.
//   - State is lost when the process restarts.
//   - ErrNotFound is returned for an empty slot.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/hangman/apps/go-server/internal/game"
)

// ErrNotFound is returned when a slot holds no session.
var ErrNotFound = errors.New("store: session not found")

// Store defines access to live game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Put stores s under key, replacing any previous session.
	Put(ctx context.Context, key string, s *game.Session) error

	// Update runs fn with exclusive access to the session under key.
	// The error from fn is returned unchanged.
	Update(ctx context.Context, key string, fn func(*game.Session) error) error

	// View runs fn with read access to the session under key.
	// fn must not mutate the session.
	View(ctx context.Context, key string, fn func(*game.Session) error) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions and the sessions they point to
	sessions map[string]*game.Session // keyed by slot
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

// Put adds or replaces the session in the map.
func (m *memory) Put(ctx context.Context, key string, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = s
	return nil
}

// Update looks up key and applies fn under the write lock.
func (m *memory) Update(ctx context.Context, key string, fn func(*game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}

// View looks up key and applies fn under the read lock.
func (m *memory) View(ctx context.Context, key string, fn func(*game.Session) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	if !ok {
		return ErrNotFound
	}
	return fn(s)
}
