package chunker

// zpaqMultiplier is the constant ZPAQ's fragmentation rule multiplies its
// accumulator by at every byte; it has no special structure beyond being
// documented alongside the algorithm.
const zpaqMultiplier = 314159265

type zpaqState struct {
	h         uint32
	threshold uint32
}

func (s *zpaqState) Update(b byte, _ int64) bool {
	s.h = (s.h + uint32(b) + 1) * zpaqMultiplier
	return s.h < s.threshold
}

type zpaqChunker struct {
	target             int64
	blockMax           int64
	threshold          uint32
	mmap               bool
}

func newZPAQ(targetBlockSize int64, useMmap bool) (Chunker, error) {
	nbits := uint(log2Ceil(targetBlockSize))
	return &zpaqChunker{
		target:    targetBlockSize,
		blockMax:  targetBlockSize * 2,
		threshold: uint32(1) << (32 - nbits),
		mmap:      useMmap,
	}, nil
}

func newZPAQStreamed(targetBlockSize int64) (Chunker, error) { return newZPAQ(targetBlockSize, false) }
func newZPAQMmap(targetBlockSize int64) (Chunker, error)     { return newZPAQ(targetBlockSize, true) }

func (c *zpaqChunker) newState() rollState {
	return &zpaqState{threshold: c.threshold}
}

func (c *zpaqChunker) Name() string {
	if c.mmap {
		return "ZPAQ (mmap)"
	}
	return "ZPAQ"
}

func (c *zpaqChunker) MaxBlockSize() int64 { return c.blockMax }

// ZPAQ has no separate minimum; the fragmentation rule alone decides where
// to cut, bounded above by blockMax.
func (c *zpaqChunker) Split(path string) ([]Chunk, error) {
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
