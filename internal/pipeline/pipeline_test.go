package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantarax/snapshot/internal/compress"
	"github.com/quantarax/snapshot/internal/config"
	"github.com/quantarax/snapshot/internal/ecc"
	"github.com/quantarax/snapshot/internal/encrypt"
	"github.com/quantarax/snapshot/internal/hash"
	"github.com/quantarax/snapshot/internal/observability"
)

func testConfig() *config.Config {
	return &config.Config{
		ChunkerName:     "RAM",
		TargetBlockSize: 64,
		HasherName:      "Blake3",
		CompressorName:  "None",
		EncryptorName:   "None",
		ECCName:         "None",
		PackSize:        256,
		PrepareThreads:  2,
		EventBufferSize: 16,
	}
}

func mustWriteFile(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPipelineRunStoresEveryChunk(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), []byte("the quick brown fox jumps over the lazy dog, repeated a few times to cross a chunk boundary, "+
		"the quick brown fox jumps over the lazy dog again and again until it is long enough"))
	mustWriteFile(t, filepath.Join(root, "sub", "b.txt"), []byte("a shorter second file"))
	mustWriteFile(t, filepath.Join(root, "empty.txt"), nil)

	sink := NewMemorySink()
	logger := observability.NewLogger("pipeline-test", "test", io.Discard)
	metrics := observability.NewMetrics()

	p, err := New(testConfig(), sink, logger, metrics)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap, err := p.Run(context.Background(), root, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !snap.Complete() {
		t.Fatalf("expected snapshot to be complete")
	}
	if snap.Err() != nil {
		t.Fatalf("unexpected snapshot error: %v", snap.Err())
	}

	paths := snap.Paths()
	if len(paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(paths))
	}

	for _, pb := range paths {
		if pb.Err() != nil {
			t.Fatalf("path %s errored: %v", pb.RelPath(), pb.Err())
		}
		for _, cb := range pb.Chunks() {
			if cb.Hash() == nil {
				t.Fatalf("path %s chunk %d: missing hash", pb.RelPath(), cb.Index())
			}
			loc := cb.Location()
			if loc == nil {
				t.Fatalf("path %s chunk %d: missing pack location", pb.RelPath(), cb.Index())
			}
			data, ok := sink.Get(loc.PackID)
			if !ok {
				t.Fatalf("path %s chunk %d: pack %s not in sink", pb.RelPath(), cb.Index(), loc.PackID)
			}
			if loc.Offset+loc.Length > int64(len(data)) {
				t.Fatalf("path %s chunk %d: location out of range of stored pack", pb.RelPath(), cb.Index())
			}
		}
	}

	if sink.Count() == 0 {
		t.Fatalf("expected at least one pack stored")
	}
}

func TestPipelineRunWithAllAlgorithms(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "f.bin"), make([]byte, 1000))

	cfg := testConfig()
	cfg.CompressorName = "Snappy"
	cfg.EncryptorName = "ChaCha20-Poly1305"
	cfg.ECCName = "SECDED"

	sink := NewMemorySink()
	logger := observability.NewLogger("pipeline-test", "test", io.Discard)
	metrics := observability.NewMetrics()

	p, err := New(cfg, sink, logger, metrics)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	snap, err := p.Run(context.Background(), root, "a strong passphrase")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !snap.Complete() || snap.Err() != nil {
		t.Fatalf("expected complete snapshot, got complete=%v err=%v", snap.Complete(), snap.Err())
	}

	for _, pb := range snap.Paths() {
		for _, cb := range pb.Chunks() {
			loc := cb.Location()
			if loc == nil {
				t.Fatalf("missing location for chunk %d of %s", cb.Index(), pb.RelPath())
			}
			prepared, ok := sink.GetPrepared(loc.PackID)
			if !ok {
				t.Fatalf("pack %s missing from sink", loc.PackID)
			}

			eccCodec, _ := ecc.BuildByTag(prepared.ECCTag)
			unarmored, err := eccCodec.Decode(prepared.Data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			encryptor, _ := encrypt.BuildByTag(prepared.EncryptTag)
			decrypted, err := encryptor.Decrypt(unarmored, "a strong passphrase")
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			decompressor, _ := compress.BuildByTag(prepared.CompressTag)
			raw, err := decompressor.Decompress(decrypted)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			chunkBytes := raw[loc.Offset : loc.Offset+loc.Length]

			hasher, _ := hash.Build("Blake3")
			want := hasher.Sum(chunkBytes)
			if string(want) != string(cb.Hash()) {
				t.Fatalf("chunk hash mismatch for %s chunk %d", pb.RelPath(), cb.Index())
			}
		}
	}
}
