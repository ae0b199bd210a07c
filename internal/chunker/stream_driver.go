package chunker

import (
	"fmt"
	"io"
	"math/bits"
	"os"
)

// rollState is the per-chunk rolling predicate state every chunking
// algorithm implements. Update folds in the next byte (posInChunk counts
// bytes since the start of the chunk currently being scanned) and reports
// whether the current position is a valid cut boundary.
type rollState interface {
	Update(b byte, posInChunk int64) bool
}

// cutAt scans buf (the unconsumed tail of the file, starting at the
// beginning of the next chunk) for a cut boundary between blockMin and
// blockMax bytes in. If no natural boundary is found by blockMax, it forces
// a cut there; if atEOF and fewer than blockMax bytes remain, it takes the
// rest of the file as the final chunk. ok is false only when more data is
// needed before a decision can be made.
func cutAt(buf []byte, atEOF bool, blockMin, blockMax int64, newState func() rollState) (cutLen int64, ok bool) {
	n := int64(len(buf))
	limit := blockMax
	if n < limit {
		limit = n
	}

	st := newState()
	for i := int64(0); i < limit; i++ {
		boundary := st.Update(buf[i], i)
		if i+1 >= blockMin && boundary {
			return i + 1, true
		}
	}

	if n >= blockMax {
		return blockMax, true
	}
	if atEOF {
		return n, true
	}
	return 0, false
}

// driveStream reads path through a growable buffer (compacted after every
// cut, so memory use stays bounded by initialBufSize unless find asks for
// more data than the buffer holds, in which case the buffer doubles) and
// applies find at each step to decide where to cut.
func driveStream(path string, initialBufSize int, find func(buf []byte, atEOF bool) (cutLen int64, ok bool)) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunker: open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 0, initialBufSize)
	var chunks []Chunk
	var offset int64
	eof := false

	fill := func() error {
		for len(buf) < cap(buf) {
			n, err := f.Read(buf[len(buf):cap(buf)])
			buf = buf[:len(buf)+n]
			if err == io.EOF {
				eof = true
				return nil
			}
			if err != nil {
				return err
			}
			if n == 0 {
				eof = true
				return nil
			}
		}
		return nil
	}

	if err := fill(); err != nil {
		return nil, fmt.Errorf("chunker: read %s: %w", path, err)
	}

	for len(buf) > 0 || !eof {
		if len(buf) == 0 && eof {
			break
		}
		cutLen, ok := find(buf, eof)
		if !ok {
			grown := make([]byte, len(buf), cap(buf)*2)
			copy(grown, buf)
			buf = grown
			if err := fill(); err != nil {
				return nil, fmt.Errorf("chunker: read %s: %w", path, err)
			}
			continue
		}

		chunks = append(chunks, Chunk{Offset: offset, Length: cutLen})
		offset += cutLen

		rest := make([]byte, int64(len(buf))-cutLen, cap(buf))
		copy(rest, buf[cutLen:])
		buf = rest

		if !eof {
			if err := fill(); err != nil {
				return nil, fmt.Errorf("chunker: read %s: %w", path, err)
			}
		}
	}

	return chunks, nil
}

// log2Floor returns floor(log2(n)) for n >= 1.
func log2Floor(n int64) int {
	if n < 1 {
		return 0
	}
	return bits.Len64(uint64(n)) - 1
}

// log2Ceil returns ceil(log2(n)) for n >= 1.
func log2Ceil(n int64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(uint64(n - 1))
}

// mmapSplit scans an entire memory-mapped file for cuts using the same
// blockMin/blockMax/newState contract as the streamed driver, treating the
// whole mapping as already fully available (there is no EOF to wait for).
func mmapSplit(data []byte, blockMin, blockMax int64, newState func() rollState) []Chunk {
	var chunks []Chunk
	var offset int64
	for offset < int64(len(data)) {
		cutLen, _ := cutAt(data[offset:], true, blockMin, blockMax, newState)
		chunks = append(chunks, Chunk{Offset: offset, Length: cutLen})
		offset += cutLen
	}
	return chunks
}
