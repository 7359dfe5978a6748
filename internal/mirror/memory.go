package mirror

import (
	"context"
	"sync"

	"github.com/erazemk/boardtrack/internal/model"
)

// Memory is an in-process gateway holding one snapshot. It backs the mock
// configuration and doubles as the test stand-in for the real mirror.
type Memory struct {
	mu   sync.Mutex
	snap model.Snapshot
}

// NewMemory returns a memory gateway seeded with the given snapshot.
func NewMemory(seed model.Snapshot) *Memory {
	return &Memory{snap: seed.Clone()}
}

// FetchSnapshot returns a copy of the held snapshot.
func (m *Memory) FetchSnapshot(ctx context.Context) (model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.Clone(), nil
}

// PushSnapshot replaces the held snapshot.
func (m *Memory) PushSnapshot(ctx context.Context, snap model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap.Clone()
	return nil
}
