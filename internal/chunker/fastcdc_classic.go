package chunker

// fastCDCClassicState is the pre-2020 FastCDC predicate: the same gear
// accumulator as the 2020 revision, checked against a single fixed mask
// with no size-dependent normalization.
type fastCDCClassicState struct {
	h    uint64
	mask uint64
}

func (s *fastCDCClassicState) Update(b byte, _ int64) bool {
	s.h = (s.h << 1) + gearTable[b]
	return s.h&s.mask == 0
}

type fastCDCClassicChunker struct {
	target             int64
	blockMin, blockMax int64
	mask               uint64
	mmap               bool
}

func newFastCDCClassic(targetBlockSize int64, useMmap bool) (Chunker, error) {
	bits := log2Floor(targetBlockSize)
	return &fastCDCClassicChunker{
		target:   targetBlockSize,
		blockMin: targetBlockSize * 8 / 10,
		blockMax: targetBlockSize * 12 / 10,
		mask:     uint64(1)<<uint(bits) - 1,
		mmap:     useMmap,
	}, nil
}

func newFastCDCClassicStreamed(targetBlockSize int64) (Chunker, error) {
	return newFastCDCClassic(targetBlockSize, false)
}
func newFastCDCClassicMmap(targetBlockSize int64) (Chunker, error) {
	return newFastCDCClassic(targetBlockSize, true)
}

func (c *fastCDCClassicChunker) newState() rollState {
	return &fastCDCClassicState{mask: c.mask}
}

func (c *fastCDCClassicChunker) Name() string {
	if c.mmap {
		return "FastCDC (mmap)"
	}
	return "FastCDC"
}

func (c *fastCDCClassicChunker) MaxBlockSize() int64 { return c.blockMax }

func (c *fastCDCClassicChunker) Split(path string) ([]Chunk, error) {
	if whole, short, err := wholeFileChunk(path, c.blockMax); err != nil {
		return nil, err
	} else if short {
		return whole, nil
	}

	if c.mmap {
		return withMmap(path, func(data []byte) ([]Chunk, error) {
			return mmapSplit(data, c.blockMin, c.blockMax, c.newState), nil
		})
	}

	bufSize := int(c.blockMax * 2)
	if bufSize < 1<<20 {
		bufSize = 1 << 20
	}
	return driveStream(path, bufSize, func(buf []byte, atEOF bool) (int64, bool) {
		return cutAt(buf, atEOF, c.blockMin, c.blockMax, c.newState)
	})
}
