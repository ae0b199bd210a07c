package compress

import "github.com/golang/snappy"

type snappyCompressor struct{}

func newSnappyCompressor() *snappyCompressor { return &snappyCompressor{} }

func (*snappyCompressor) Name() string { return "Snappy" }
func (*snappyCompressor) Tag() Tag     { return TagSnappy }

func (*snappyCompressor) Compress(data []byte) ([]byte, Tag, error) {
	encoded := snappy.Encode(nil, data)
	return shrinkOrVerbatim(encoded, nil, data, TagSnappy)
}

func (*snappyCompressor) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}
