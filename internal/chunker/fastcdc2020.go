package chunker

// fastCDC2020State implements the gear-hash predicate from FastCDC's 2020
// revision: a single shifted accumulator checked against one of two masks
// depending on whether the chunk has grown past its target average size yet
// (normalized chunking), which pulls the resulting size distribution tighter
// around the target than a single fixed mask does.
type fastCDC2020State struct {
	h                uint64
	avg              int64
	maskSmall, maskLarge uint64
}

func (s *fastCDC2020State) Update(b byte, posInChunk int64) bool {
	s.h = (s.h << 1) + gearTable[b]
	if posInChunk < s.avg {
		return s.h&s.maskSmall == 0
	}
	return s.h&s.maskLarge == 0
}

type fastCDC2020Chunker struct {
	target             int64
	blockMin, avg, blockMax int64
	maskSmall, maskLarge    uint64
	mmap                    bool
}

func newFastCDC2020(targetBlockSize int64, useMmap bool) (Chunker, error) {
	bits := log2Floor(targetBlockSize)
	// normalization level 1: harder-to-match mask before the average size,
	// easier-to-match mask after it, so cuts cluster near the target.
	maskSmall := uint64(1)<<uint(bits+1) - 1
	maskLarge := uint64(1)<<uint(max(bits-1, 1)) - 1
	return &fastCDC2020Chunker{
		target:    targetBlockSize,
		blockMin:  targetBlockSize * 9 / 10,
		avg:       targetBlockSize,
		blockMax:  targetBlockSize * 2,
		maskSmall: maskSmall,
		maskLarge: maskLarge,
		mmap:      useMmap,
	}, nil
}

func newFastCDC2020Streamed(targetBlockSize int64) (Chunker, error) {
	return newFastCDC2020(targetBlockSize, false)
}
func newFastCDC2020Mmap(targetBlockSize int64) (Chunker, error) {
	return newFastCDC2020(targetBlockSize, true)
}

func (c *fastCDC2020Chunker) newState() rollState {
	return &fastCDC2020State{avg: c.avg, maskSmall: c.maskSmall, maskLarge: c.maskLarge}
}

func (c *fastCDC2020Chunker) Name() string {
	if c.mmap {
		return "FastCDC v2020 (mmap)"
	}
	return "FastCDC v2020"
}

func (c *fastCDC2020Chunker) MaxBlockSize() int64 { return c.blockMax }

func (c *fastCDC2020Chunker) Split(path string) ([]Chunk, error) {
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
