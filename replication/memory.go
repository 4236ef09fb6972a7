package replication

import (
	"context"
	"sync"
)

// MemorySink keeps published batches in memory. It is used by tests and by
// hosts that poll the latest state instead of pushing it.
type MemorySink struct {
	mu      sync.Mutex
	batches []Batch
	limit   int
}

// NewMemorySink keeps at most limit batches; zero keeps everything.
func NewMemorySink(limit int) *MemorySink {
	return &MemorySink{limit: limit}
}

func (m *MemorySink) Publish(_ context.Context, b Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, b)
	if m.limit > 0 && len(m.batches) > m.limit {
		m.batches = append(m.batches[:0], m.batches[len(m.batches)-m.limit:]...)
	}
	return nil
}

// Batches returns a copy of the stored batches, oldest first.
func (m *MemorySink) Batches() []Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Batch(nil), m.batches...)
}

// Latest returns the most recent batch.
func (m *MemorySink) Latest() (Batch, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.batches) == 0 {
		return Batch{}, false
	}
	return m.batches[len(m.batches)-1], true
}
