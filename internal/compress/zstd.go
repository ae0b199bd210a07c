package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdCompressor struct {
	level int
}

func newZstdCompressor(level int) *zstdCompressor {
	return &zstdCompressor{level: level}
}

func (z *zstdCompressor) Name() string { return fmt.Sprintf("Zstd-%d", z.level) }
func (*zstdCompressor) Tag() Tag       { return TagZstd }

func (z *zstdCompressor) encoderLevel() zstd.EncoderLevel {
	switch {
	case z.level <= 1:
		return zstd.SpeedFastest
	case z.level <= 3:
		return zstd.SpeedDefault
	default:
		return zstd.SpeedBestCompression
	}
}

func (z *zstdCompressor) Compress(data []byte) ([]byte, Tag, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.encoderLevel()))
	if err != nil {
		return nil, TagNone, err
	}
	defer enc.Close()
	encoded := enc.EncodeAll(data, nil)
	return shrinkOrVerbatim(encoded, nil, data, TagZstd)
}

func (*zstdCompressor) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
