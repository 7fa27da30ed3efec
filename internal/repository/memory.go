package repository

import (
	"context"
	"sync"

	"github.com/high-society/auction-server-go/internal/game"
)

// MemoryStore keeps serialized game states in process memory. It is the
// default backend for single-node runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

var _ game.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

// Save stores a copy of the serialized state for a room.
func (s *MemoryStore) Save(_ context.Context, roomID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[roomID] = append([]byte(nil), data...)
	return nil
}

// Load returns a copy of the serialized state for a room.
func (s *MemoryStore) Load(_ context.Context, roomID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.states[roomID]
	if !ok {
		return nil, game.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete removes a room's state. Deleting a missing room is not an error.
func (s *MemoryStore) Delete(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, roomID)
	return nil
}
