package chunker

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, size int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	data := make([]byte, size)
	rnd := rand.New(rand.NewSource(42))
	rnd.Read(data)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func assertContiguous(t *testing.T, chunks []Chunk, fileSize int64) {
	t.Helper()
	var offset int64
	for i, c := range chunks {
		if c.Offset != offset {
			t.Fatalf("chunk %d: offset %d, want %d", i, c.Offset, offset)
		}
		if c.Length <= 0 {
			t.Fatalf("chunk %d: non-positive length %d", i, c.Length)
		}
		offset += c.Length
	}
	if offset != fileSize {
		t.Fatalf("chunks cover %d bytes, want %d", offset, fileSize)
	}
}

func TestAllChunkersCoverWholeFile(t *testing.T) {
	const target = 4096
	path := writeTempFile(t, 10*target)
	info, _ := os.Stat(path)

	for _, name := range ListNames() {
		c, err := Build(name, target)
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		chunks, err := c.Split(path)
		if err != nil {
			t.Fatalf("%s: Split: %v", name, err)
		}
		assertContiguous(t, chunks, info.Size())

		for _, ch := range chunks {
			if ch.Length > c.MaxBlockSize() {
				t.Fatalf("%s: chunk length %d exceeds MaxBlockSize %d", name, ch.Length, c.MaxBlockSize())
			}
		}
	}
}

func TestSmallFileIsOneChunk(t *testing.T) {
	const target = 1 << 20
	path := writeTempFile(t, 128)
	info, _ := os.Stat(path)

	for _, name := range ListNames() {
		c, err := Build(name, target)
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		chunks, err := c.Split(path)
		if err != nil {
			t.Fatalf("%s: Split: %v", name, err)
		}
		if len(chunks) != 1 {
			t.Fatalf("%s: expected 1 chunk for small file, got %d", name, len(chunks))
		}
		if chunks[0].Length != info.Size() {
			t.Fatalf("%s: chunk length %d, want %d", name, chunks[0].Length, info.Size())
		}
	}
}

func TestFileBetweenTargetAndMaxIsOneChunk(t *testing.T) {
	const target = 4096
	// fastcdc_classic has the tightest MaxBlockSize at 1.2x target (4915);
	// every other family's is 2x target. 4500 sits strictly above target
	// and strictly below all of them.
	const size = 4500
	path := writeTempFile(t, size)
	info, _ := os.Stat(path)

	for _, name := range ListNames() {
		c, err := Build(name, target)
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		if info.Size() <= target || info.Size() >= c.MaxBlockSize() {
			t.Fatalf("%s: test file size %d not strictly between target %d and MaxBlockSize %d", name, info.Size(), target, c.MaxBlockSize())
		}
		chunks, err := c.Split(path)
		if err != nil {
			t.Fatalf("%s: Split: %v", name, err)
		}
		if len(chunks) != 1 {
			t.Fatalf("%s: expected 1 chunk for file between target and MaxBlockSize, got %d", name, len(chunks))
		}
		if chunks[0].Length != info.Size() {
			t.Fatalf("%s: chunk length %d, want %d", name, chunks[0].Length, info.Size())
		}
	}
}

func TestBuildUnknown(t *testing.T) {
	if _, err := Build("nonexistent", 4096); err == nil {
		t.Fatalf("expected error for unknown chunker")
	}
}

func TestBuildRejectsNonPositiveTarget(t *testing.T) {
	if _, err := Build("Rabin64", 0); err == nil {
		t.Fatalf("expected error for non-positive target block size")
	}
}
