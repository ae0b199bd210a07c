package pack

import (
	"bytes"
	"testing"

	"github.com/quantarax/snapshot/internal/compress"
	"github.com/quantarax/snapshot/internal/ecc"
	"github.com/quantarax/snapshot/internal/encrypt"
	"github.com/quantarax/snapshot/internal/hash"
)

func TestAddChunkTracksOffsets(t *testing.T) {
	p := NewPackBuilder("pack-1", 1024)

	if err := p.AddChunk(ChunkKey{PathRel: "a.txt", ChunkIndex: 0}, []byte("hello")); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}
	if err := p.AddChunk(ChunkKey{PathRel: "a.txt", ChunkIndex: 1}, []byte("world!")); err != nil {
		t.Fatalf("AddChunk: %v", err)
	}

	refs := p.Refs()
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Offset != 0 || refs[0].Length != 5 {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Offset != 5 || refs[1].Length != 6 {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}
	if p.Size() != 11 {
		t.Fatalf("expected size 11, got %d", p.Size())
	}
}

func TestPrepareRoundTrip(t *testing.T) {
	p := NewPackBuilder("pack-1", 4096)
	chunks := map[ChunkKey][]byte{
		{PathRel: "a.txt", ChunkIndex: 0}: []byte("the quick brown fox "),
		{PathRel: "a.txt", ChunkIndex: 1}: []byte("jumps over the lazy dog "),
		{PathRel: "b.txt", ChunkIndex: 0}: []byte("a second file's contents"),
	}
	for key, data := range chunks {
		if err := p.AddChunk(key, data); err != nil {
			t.Fatalf("AddChunk: %v", err)
		}
	}

	hasher, _ := hash.Build("Blake3")
	compressor, _ := compress.Build("Snappy")
	encryptor, _ := encrypt.Build("ChaCha20-Poly1305")
	eccCodec, err := ecc.Build("SECDED")
	if err != nil {
		t.Fatalf("ecc.Build: %v", err)
	}

	prepared, err := Prepare(p, hasher, compressor, encryptor, eccCodec, "test-passphrase")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if p.Phase() != PhaseArmored {
		t.Fatalf("expected pack phase Armored, got %s", p.Phase())
	}
	if len(prepared.PackHash) == 0 {
		t.Fatalf("expected a non-empty pack hash")
	}
	if len(prepared.ChunkLocations) != len(chunks) {
		t.Fatalf("expected %d chunk locations, got %d", len(chunks), len(prepared.ChunkLocations))
	}

	// Reverse the pipeline by hand to confirm the raw bytes survive intact.
	unarmored, err := eccCodec.Decode(prepared.Data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	decrypted, err := encryptor.Decrypt(unarmored, "test-passphrase")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	decompressor, err := compress.BuildByTag(prepared.CompressTag)
	if err != nil {
		t.Fatalf("BuildByTag: %v", err)
	}
	raw, err := decompressor.Decompress(decrypted)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}

	for key, want := range chunks {
		var loc ChunkLocation
		found := false
		for _, l := range prepared.ChunkLocations {
			if l.Key == key {
				loc = l
				found = true
			}
		}
		if !found {
			t.Fatalf("missing location for %+v", key)
		}
		got := raw[loc.Offset : loc.Offset+loc.Length]
		if !bytes.Equal(got, want) {
			t.Fatalf("chunk %+v: got %q, want %q", key, got, want)
		}
	}
}

func TestAddChunkAfterPrepareFails(t *testing.T) {
	p := NewPackBuilder("pack-1", 64)
	hasher, _ := hash.Build("Blake3")
	compressor, _ := compress.Build("None")
	encryptor, _ := encrypt.Build("None")
	eccCodec, _ := ecc.Build("None")

	if _, err := Prepare(p, hasher, compressor, encryptor, eccCodec, ""); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := p.AddChunk(ChunkKey{PathRel: "late", ChunkIndex: 0}, []byte("x")); err == nil {
		t.Fatalf("expected error adding chunk after preparation")
	}
}
