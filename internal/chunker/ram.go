package chunker

// ramState is the simplest family member: a single modular running sum over
// a fixed window, with no secondary accumulator.
type ramState struct {
	window      []byte
	idx, filled int
	sum         uint32
	mask        uint32
}

func (s *ramState) Update(b byte, _ int64) bool {
	var old byte
	if s.filled >= len(s.window) {
		old = s.window[s.idx]
	}
	s.window[s.idx] = b
	s.idx = (s.idx + 1) % len(s.window)
	if s.filled < len(s.window) {
		s.filled++
	}

	s.sum = s.sum - uint32(old) + uint32(b)

	return s.filled >= len(s.window) && s.sum&s.mask == 0
}

type ramChunker struct {
	target   int64
	window   int64
	blockMax int64
	mask     uint32
	mmap     bool
}

func newRAM(targetBlockSize int64, useMmap bool) (Chunker, error) {
	bits := uint(log2Floor(targetBlockSize))
	return &ramChunker{
		target:   targetBlockSize,
		window:   targetBlockSize,
		blockMax: targetBlockSize * 2,
		mask:     uint32(1)<<bits - 1,
		mmap:     useMmap,
	}, nil
}

func newRAMStreamed(targetBlockSize int64) (Chunker, error) { return newRAM(targetBlockSize, false) }
func newRAMMmap(targetBlockSize int64) (Chunker, error)     { return newRAM(targetBlockSize, true) }

func (c *ramChunker) newState() rollState {
	w := c.window
	if w < 1 {
		w = 1
	}
	return &ramState{window: make([]byte, w), mask: c.mask}
}

func (c *ramChunker) Name() string {
	if c.mmap {
		return "RAM (mmap)"
	}
	return "RAM"
}

func (c *ramChunker) MaxBlockSize() int64 { return c.blockMax }

func (c *ramChunker) Split(path string) ([]Chunk, error) {
	if whole, short, err := wholeFileChunk(path, c.blockMax); err != nil {
		return nil, err
	} else if short {
		return whole, nil
	}

	if c.mmap {
		return withMmap(path, func(data []byte) ([]Chunk, error) {
			return mmapSplit(data, 0, c.blockMax, c.newState), nil
		})
	}

	bufSize := int(c.blockMax * 2)
	if bufSize < 1<<20 {
		bufSize = 1 << 20
	}
	return driveStream(path, bufSize, func(buf []byte, atEOF bool) (int64, bool) {
		return cutAt(buf, atEOF, 0, c.blockMax, c.newState)
	})
}
