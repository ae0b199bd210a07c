// Package snapshot holds the in-progress state tree a backup run builds up
// as files are walked, chunked, and packed: a SnapshotBuilder owns an
// ordered list of PathBuilders, each of which owns an ordered list of
// ChunkBuilders. Every level is safe for concurrent use, since the walk,
// chunk, pack-assemble, and store stages all touch it from different
// goroutines.
package snapshot

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// unset is the sentinel for "expected count not yet known" counters: the
// walk stage doesn't know how many paths a root contains until it finishes,
// and a path doesn't know its chunk count until the chunk stage is done
// with it.
const unset = -1

// PackLocation identifies where a chunk's bytes ended up: which pack, and at
// what offset and length within that pack's raw (pre-compression) layout.
type PackLocation struct {
	PackID string
	Offset int64
	Length int64
}

// ChunkBuilder tracks one chunk's progress from cut to stored.
type ChunkBuilder struct {
	mu       sync.RWMutex
	index    int
	size     int64
	hash     []byte
	location *PackLocation
	err      error
}

// NewChunkBuilder creates a chunk builder for the chunk at index with the
// given size, known as soon as the chunk stage cuts it.
func NewChunkBuilder(index int, size int64) *ChunkBuilder {
	return &ChunkBuilder{index: index, size: size}
}

func (c *ChunkBuilder) Index() int   { return c.index }
func (c *ChunkBuilder) Size() int64  { return c.size }

// SetHash records the chunk's content hash. It may be set only once.
func (c *ChunkBuilder) SetHash(hash []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hash = hash
}

func (c *ChunkBuilder) Hash() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hash
}

// SetLocation records where pack preparation placed this chunk's bytes. It
// may be set only once.
func (c *ChunkBuilder) SetLocation(loc PackLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.location = &loc
}

func (c *ChunkBuilder) Location() *PackLocation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.location
}

// SetError attaches a terminal error to this chunk.
func (c *ChunkBuilder) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *ChunkBuilder) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Complete reports whether this chunk has reached a terminal state: either
// it errored, or it has both a hash and a storage location.
func (c *ChunkBuilder) Complete() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err != nil || (c.hash != nil && c.location != nil)
}

// PathBuilder tracks one walked path's chunks from cut to stored.
type PathBuilder struct {
	mu                sync.RWMutex
	absPath           string
	relPath           string
	metadata          map[string]string
	chunks            []*ChunkBuilder
	expectedChunkCount int64 // atomic-accessed via expectedCount()/SetExpectedChunkCount()
	err               error
}

// NewPathBuilder creates a path builder for a walked file, identified by
// both its absolute filesystem path and its path relative to the root.
func NewPathBuilder(absPath, relPath string) *PathBuilder {
	return &PathBuilder{
		absPath:            absPath,
		relPath:            relPath,
		expectedChunkCount: unset,
	}
}

func (p *PathBuilder) AbsPath() string { return p.absPath }
func (p *PathBuilder) RelPath() string { return p.relPath }

// SetMetadata attaches arbitrary file metadata (mode, mtime, owner, ...)
// collected during the walk.
func (p *PathBuilder) SetMetadata(md map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metadata = md
}

func (p *PathBuilder) Metadata() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metadata
}

// AddChunk appends a newly cut chunk to this path, in chunking order.
func (p *PathBuilder) AddChunk(c *ChunkBuilder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks = append(p.chunks, c)
}

func (p *PathBuilder) Chunks() []*ChunkBuilder {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*ChunkBuilder, len(p.chunks))
	copy(out, p.chunks)
	return out
}

// SetExpectedChunkCount records how many chunks this path will have once
// the chunk stage finishes cutting it. It may be set only once.
func (p *PathBuilder) SetExpectedChunkCount(n int) {
	atomic.CompareAndSwapInt64(&p.expectedChunkCount, unset, int64(n))
}

func (p *PathBuilder) expectedCount() (int64, bool) {
	n := atomic.LoadInt64(&p.expectedChunkCount)
	return n, n != unset
}

// SetError attaches a terminal error to every chunk currently known for
// this path, and to the path itself. Used when pack preparation fails for a
// pack holding one or more of this path's chunks.
func (p *PathBuilder) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	for _, c := range p.chunks {
		c.SetError(err)
	}
}

func (p *PathBuilder) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// Complete reports whether this path is done: either it errored, or its
// chunk count is known and every chunk that count implies is complete.
func (p *PathBuilder) Complete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.err != nil {
		return true
	}
	n, known := p.expectedCount()
	if !known || int64(len(p.chunks)) != n {
		return false
	}
	for _, c := range p.chunks {
		if !c.Complete() {
			return false
		}
	}
	return true
}

// SnapshotBuilder is the root handle for one backup run: an ordered list of
// PathBuilders, populated by the walk stage and completed by every
// downstream stage as they process each path's chunks.
type SnapshotBuilder struct {
	mu                sync.RWMutex
	root              string
	paths             []*PathBuilder
	expectedPathCount int64
	err               error
}

// NewSnapshotBuilder creates the root handle for a backup run rooted at root.
func NewSnapshotBuilder(root string) *SnapshotBuilder {
	return &SnapshotBuilder{root: root, expectedPathCount: unset}
}

func (s *SnapshotBuilder) Root() string { return s.root }

// AddPath appends a newly discovered path, in walk order.
func (s *SnapshotBuilder) AddPath(p *PathBuilder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, p)
}

func (s *SnapshotBuilder) Paths() []*PathBuilder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*PathBuilder, len(s.paths))
	copy(out, s.paths)
	return out
}

// SetExpectedPathCount records how many paths the walk stage found. It may
// be set only once.
func (s *SnapshotBuilder) SetExpectedPathCount(n int) {
	atomic.CompareAndSwapInt64(&s.expectedPathCount, unset, int64(n))
}

func (s *SnapshotBuilder) expectedCount() (int64, bool) {
	n := atomic.LoadInt64(&s.expectedPathCount)
	return n, n != unset
}

// SetError attaches a terminal, snapshot-wide error (for example, an
// InvalidRoot failure that stopped the walk before it produced any paths).
func (s *SnapshotBuilder) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *SnapshotBuilder) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Complete reports whether the snapshot itself has errored, or every path
// in the snapshot has reached a terminal state and the walk stage's
// expected path count has been set.
func (s *SnapshotBuilder) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return true
	}
	n, known := s.expectedCount()
	if !known || int64(len(s.paths)) != n {
		return false
	}
	for _, p := range s.paths {
		if !p.Complete() {
			return false
		}
	}
	return true
}

// String gives a short human-readable summary, handy for log lines.
func (s *SnapshotBuilder) String() string {
	return fmt.Sprintf("snapshot(root=%s, paths=%d)", s.root, len(s.Paths()))
}
