package compress

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

type lz4Compressor struct{}

func newLZ4Compressor() *lz4Compressor { return &lz4Compressor{} }

func (*lz4Compressor) Name() string { return "LZ4" }
func (*lz4Compressor) Tag() Tag      { return TagLZ4 }

func (*lz4Compressor) Compress(data []byte) ([]byte, Tag, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, TagNone, err
	}
	if err := w.Close(); err != nil {
		return nil, TagNone, err
	}
	return shrinkOrVerbatim(buf.Bytes(), nil, data, TagLZ4)
}

func (*lz4Compressor) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	return io.ReadAll(r)
}
