package persistence

import (
	"context"
	"sync"

	"github.com/okian/simonev/internal/domain/model"
)

// MemoryBackend keeps the last saved snapshot in memory. State is lost on exit.
type MemoryBackend struct {
	mu    sync.Mutex
	snap  model.Snapshot
	saved bool
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

// Load implements Backend.
func (m *MemoryBackend) Load(_ context.Context) (model.PartialSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return model.PartialSnapshot{}, nil
	}
	snap := m.snap.Clone()
	return model.PartialSnapshot{Schools: snap.Schools, Events: snap.Events, HasSchools: true, HasEvents: true}, nil
}

// Save implements Backend.
func (m *MemoryBackend) Save(_ context.Context, snap model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	m.saved = true
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }
