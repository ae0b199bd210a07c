package chunker

// rollSumState is a bup-style windowed rolling checksum: two running
// accumulators (s1 the sum of bytes in the window, s2 the sum of s1 as the
// window slides); s2 is checked against a mask sized to the target average
// chunk length.
type rollSumState struct {
	window       []byte
	idx, filled  int
	s1, s2       uint32
	mask         uint32
}

func (s *rollSumState) Update(b byte, _ int64) bool {
	var old byte
	if s.filled >= len(s.window) {
		old = s.window[s.idx]
	}
	s.window[s.idx] = b
	s.idx = (s.idx + 1) % len(s.window)
	if s.filled < len(s.window) {
		s.filled++
	}

	s.s1 = s.s1 - uint32(old) + uint32(b)
	s.s2 = s.s2 - uint32(len(s.window))*uint32(old) + s.s1

	return s.filled >= len(s.window) && s.s2&s.mask == 0
}

type rollSumChunker struct {
	target   int64
	window   int64
	blockMax int64
	mask     uint32
	mmap     bool
}

func newRollSum(targetBlockSize int64, useMmap bool) (Chunker, error) {
	bits := uint(log2Floor(targetBlockSize))
	return &rollSumChunker{
		target:   targetBlockSize,
		window:   targetBlockSize,
		blockMax: targetBlockSize * 2,
		mask:     uint32(1)<<bits - 1,
		mmap:     useMmap,
	}, nil
}

func newRollSumStreamed(targetBlockSize int64) (Chunker, error) { return newRollSum(targetBlockSize, false) }
func newRollSumMmap(targetBlockSize int64) (Chunker, error)     { return newRollSum(targetBlockSize, true) }

func (c *rollSumChunker) newState() rollState {
	w := c.window
	if w < 1 {
		w = 1
	}
	return &rollSumState{window: make([]byte, w), mask: c.mask}
}

func (c *rollSumChunker) Name() string {
	if c.mmap {
		return "Roll Sum (mmap)"
	}
	return "Roll Sum"
}

func (c *rollSumChunker) MaxBlockSize() int64 { return c.blockMax }

func (c *rollSumChunker) Split(path string) ([]Chunk, error) {
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
