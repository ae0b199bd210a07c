package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

type brotliCompressor struct{ level int }

func newBrotliCompressor(level int) *brotliCompressor { return &brotliCompressor{level} }

func (b *brotliCompressor) Name() string { return fmt.Sprintf("Brotli-%d", b.level) }
func (*brotliCompressor) Tag() Tag       { return TagBrotli }

func (b *brotliCompressor) Compress(data []byte) ([]byte, Tag, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, b.level)
	if _, err := w.Write(data); err != nil {
		return nil, TagNone, err
	}
	if err := w.Close(); err != nil {
		return nil, TagNone, err
	}
	return shrinkOrVerbatim(buf.Bytes(), nil, data, TagBrotli)
}

func (*brotliCompressor) Decompress(data []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(data))
	return io.ReadAll(r)
}
