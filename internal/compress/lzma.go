package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

type lzmaCompressor struct{ level int }

func newLZMACompressor(level int) *lzmaCompressor { return &lzmaCompressor{level} }

func (l *lzmaCompressor) Name() string { return fmt.Sprintf("LZMA-%d", l.level) }
func (*lzmaCompressor) Tag() Tag       { return TagLZMA }

func (l *lzmaCompressor) config() lzma.Writer2Config {
	cfg := lzma.Writer2Config{}
	switch {
	case l.level <= 1:
		cfg.DictCap = 1 << 20
	case l.level <= 6:
		cfg.DictCap = 8 << 20
	default:
		cfg.DictCap = 32 << 20
	}
	return cfg
}

func (l *lzmaCompressor) Compress(data []byte) ([]byte, Tag, error) {
	var buf bytes.Buffer
	cfg := l.config()
	w, err := cfg.NewWriter2(&buf)
	if err != nil {
		return nil, TagNone, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, TagNone, err
	}
	if err := w.Close(); err != nil {
		return nil, TagNone, err
	}
	return shrinkOrVerbatim(buf.Bytes(), nil, data, TagLZMA)
}

func (*lzmaCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := lzma.Reader2Config{}.NewReader2(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
