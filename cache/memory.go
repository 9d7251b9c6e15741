package cache

import (
	"context"
	"sync"

	"github.com/civicpulse/civicpulse-api/models"
)

// MemoryStore keeps the snapshot slot in process memory. Used in tests and as
// the degraded store when redis is unreachable at startup.
type MemoryStore struct {
	mu   sync.Mutex
	snap *models.OfflineSnapshot
}

// NewMemoryStore returns an empty in-memory snapshot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save overwrites the snapshot slot
func (s *MemoryStore) Save(_ context.Context, snap models.OfflineSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := snap
	cp.Markers = append([]models.Marker(nil), snap.Markers...)
	s.snap = &cp
	return nil
}

// Load reads the snapshot slot, returning ErrNoSnapshot when empty
func (s *MemoryStore) Load(_ context.Context) (*models.OfflineSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	cp := *s.snap
	cp.Markers = append([]models.Marker(nil), s.snap.Markers...)
	return &cp, nil
}
