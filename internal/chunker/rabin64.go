package chunker

// rabinWindow is the fixed window size used by the Rabin64 rolling
// fingerprint, independent of target block size.
const rabinWindow = 64

// rabinMultiplier is the odd 64-bit constant the polynomial rolling hash is
// built on; rabinMultiplierPowWm1 is that constant raised to rabinWindow-1,
// needed to remove a byte's contribution when it slides out of the window.
var rabinMultiplier uint64 = 0x100000001b3
var rabinMultiplierPowWm1 uint64

func init() {
	rabinMultiplierPowWm1 = 1
	for i := 0; i < rabinWindow-1; i++ {
		rabinMultiplierPowWm1 *= rabinMultiplier
	}
}

// rabinPredicateMask matches the literal Rabin64 cut predicate: the low 13
// bits of the rolling hash all set.
const rabinPredicateMask = (1 << 13) - 1

type rabin64State struct {
	window [rabinWindow]byte
	idx    int
	filled int
	h      uint64
}

func (s *rabin64State) Update(b byte, _ int64) bool {
	var old byte
	if s.filled >= rabinWindow {
		old = s.window[s.idx]
	}
	s.h = (s.h-uint64(old)*rabinMultiplierPowWm1)*rabinMultiplier + uint64(b)
	s.window[s.idx] = b
	s.idx = (s.idx + 1) % rabinWindow
	if s.filled < rabinWindow {
		s.filled++
	}
	return s.filled >= rabinWindow && s.h&rabinPredicateMask == rabinPredicateMask
}

func newRabin64State() rollState { return &rabin64State{} }

type rabin64Chunker struct {
	target             int64
	blockMin, blockMax int64
	mmap               bool
}

func newRabin64(targetBlockSize int64, useMmap bool) (Chunker, error) {
	return &rabin64Chunker{
		target:   targetBlockSize,
		blockMin: targetBlockSize * 9 / 10,
		blockMax: targetBlockSize * 2,
		mmap:     useMmap,
	}, nil
}

func newRabin64Streamed(targetBlockSize int64) (Chunker, error) { return newRabin64(targetBlockSize, false) }
func newRabin64Mmap(targetBlockSize int64) (Chunker, error)     { return newRabin64(targetBlockSize, true) }

func (c *rabin64Chunker) Name() string {
	if c.mmap {
		return "Rabin64 (mmap)"
	}
	return "Rabin64"
}

func (c *rabin64Chunker) MaxBlockSize() int64 { return c.blockMax }

func (c *rabin64Chunker) Split(path string) ([]Chunk, error) {
	if whole, short, err := wholeFileChunk(path, c.blockMax); err != nil {
		return nil, err
	} else if short {
		return whole, nil
	}

	if c.mmap {
		return withMmap(path, func(data []byte) ([]Chunk, error) {
			return mmapSplit(data, c.blockMin, c.blockMax, newRabin64State), nil
		})
	}

	bufSize := int(c.blockMax * 2)
	if bufSize < 1<<20 {
		bufSize = 1 << 20
	}
	return driveStream(path, bufSize, func(buf []byte, atEOF bool) (int64, bool) {
		return cutAt(buf, atEOF, c.blockMin, c.blockMax, newRabin64State)
	})
}
