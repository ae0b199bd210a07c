package chunker

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// withMmap opens path and maps it read-only, invoking fn with the mapped
// bytes. The mapping is always unmapped before returning, even on error.
func withMmap(path string, fn func(data []byte) ([]Chunk, error)) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("chunker: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fn(nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("chunker: mmap %s: %w", path, err)
	}
	defer m.Unmap()

	return fn([]byte(m))
}
