// Package pack implements pack assembly and preparation: gathering chunks
// from many files into one shared buffer, then carrying that single buffer
// through hashing, compression, encryption, and ECC armoring before it is
// handed to storage.
package pack

import (
	"fmt"
	"sync"
)

// Phase names where a PackBuilder's single data buffer currently sits in
// the raw -> hashed -> compressed -> encrypted -> armored pipeline.
type Phase int

const (
	PhaseRaw Phase = iota
	PhaseHashed
	PhaseCompressed
	PhaseEncrypted
	PhaseArmored
)

func (p Phase) String() string {
	switch p {
	case PhaseRaw:
		return "raw"
	case PhaseHashed:
		return "hashed"
	case PhaseCompressed:
		return "compressed"
	case PhaseEncrypted:
		return "encrypted"
	case PhaseArmored:
		return "armored"
	default:
		return "unknown"
	}
}

// ChunkKey identifies a chunk within its owning path, for use as a map key
// once chunk bytes have moved into a shared pack buffer.
type ChunkKey struct {
	PathRel    string
	ChunkIndex int
}

// ChunkRef records where one chunk's raw bytes live within a pack's buffer.
type ChunkRef struct {
	Key    ChunkKey
	Offset int64
	Length int64
}

// PackBuilder accumulates chunks from potentially many files into a single
// buffer, pre-sized so no reallocation is needed once assembly starts, then
// carries that buffer through preparation in place.
type PackBuilder struct {
	mu    sync.Mutex
	id    string
	refs  []ChunkRef
	data  []byte
	phase Phase
}

// NewPackBuilder creates an empty pack with a buffer pre-allocated to
// capacity bytes (conventionally pack size + the chunker's max block size +
// the encryptor's extra space, so the one chunk that pushes a pack past its
// target size never forces a reallocation mid-assembly).
func NewPackBuilder(id string, capacity int64) *PackBuilder {
	return &PackBuilder{
		id:   id,
		data: make([]byte, 0, capacity),
	}
}

func (p *PackBuilder) ID() string { return p.id }

// Size returns the current buffer length, whatever phase it's in.
func (p *PackBuilder) Size() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.data))
}

func (p *PackBuilder) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// AddChunk appends a chunk's raw bytes to the pack buffer and records its
// reference. It is only valid while the pack is still in PhaseRaw.
func (p *PackBuilder) AddChunk(key ChunkKey, chunkData []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != PhaseRaw {
		return fmt.Errorf("pack: cannot add chunk to pack %s in phase %s", p.id, p.phase)
	}
	offset := int64(len(p.data))
	p.data = append(p.data, chunkData...)
	p.refs = append(p.refs, ChunkRef{Key: key, Offset: offset, Length: int64(len(chunkData))})
	return nil
}

// Refs returns the chunk references recorded so far, in assembly order.
// Offsets always refer back to the original raw layout, even after the
// buffer has been compressed/encrypted/armored in place.
func (p *PackBuilder) Refs() []ChunkRef {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ChunkRef, len(p.refs))
	copy(out, p.refs)
	return out
}

// Take removes the pack's buffer for a preparation step to transform,
// leaving the pack holding no buffer until PutBack is called. This is a
// transfer, not a copy: callers own the slice until they hand it back.
func (p *PackBuilder) Take() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := p.data
	p.data = nil
	return buf
}

// PutBack installs a transformed buffer and advances the pack to phase.
func (p *PackBuilder) PutBack(buf []byte, phase Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = buf
	p.phase = phase
}
