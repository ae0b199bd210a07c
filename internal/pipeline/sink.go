package pipeline

import (
	"sync"

	"github.com/quantarax/snapshot/internal/pack"
)

// Sink is the storage collaborator a pipeline hands finished packs to. The
// durable backend (on-disk layout, remote upload, catalog/index writing) is
// an external collaborator; the pipeline only needs this narrow interface
// to hand off a pack once it is hashed, compressed, encrypted, and armored.
type Sink interface {
	Store(prepared pack.PreparedPack) error
}

// MemorySink is a Sink that keeps every stored pack in memory, keyed by
// pack ID. It exists for tests and local experimentation, the way the
// existing CAS layer falls back to an in-memory backend when no durable
// store is configured.
type MemorySink struct {
	mu    sync.RWMutex
	packs map[string]pack.PreparedPack
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{packs: make(map[string]pack.PreparedPack)}
}

func (s *MemorySink) Store(prepared pack.PreparedPack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs[prepared.ID] = prepared
	return nil
}

// Get returns the stored bytes for a pack ID, for test assertions.
func (s *MemorySink) Get(packID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packs[packID]
	return p.Data, ok
}

// GetPrepared returns the full PreparedPack (bytes plus algorithm tags) for
// a pack ID, for tests that need to reverse compression/encryption/ECC.
func (s *MemorySink) GetPrepared(packID string) (pack.PreparedPack, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packs[packID]
	return p, ok
}

// Count returns the number of packs currently held.
func (s *MemorySink) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.packs)
}
