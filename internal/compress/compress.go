// Package compress implements the pluggable compression family applied to
// packs before encryption. Every member returns the smaller of its encoded
// output or the original bytes verbatim (tagged None) so compression never
// costs space.
package compress

import (
	"fmt"
	"sync"
)

// Tag identifies which compression algorithm produced a pack's compressed
// bytes, independent of the compression level used to produce them.
type Tag int

const (
	TagNone Tag = iota
	TagSnappy
	TagZstd
	TagDeflate
	TagZlib
	TagGzip
	TagBzip2
	TagLZMA
	TagBrotli
	TagLZ4
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagSnappy:
		return "snappy"
	case TagZstd:
		return "zstd"
	case TagDeflate:
		return "deflate"
	case TagZlib:
		return "zlib"
	case TagGzip:
		return "gzip"
	case TagBzip2:
		return "bzip2"
	case TagLZMA:
		return "lzma"
	case TagBrotli:
		return "brotli"
	case TagLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor is the contract every compression family member satisfies.
// Compress returns the tag actually used: TagNone if the encoded form did
// not come out smaller than the input.
type Compressor interface {
	Name() string
	Tag() Tag
	Compress(data []byte) ([]byte, Tag, error)
	Decompress(data []byte) ([]byte, error)
}

type registry struct {
	once   sync.Once
	byName map[string]Compressor
	byTag  map[Tag]Compressor
	names  []string
}

var reg registry

func (r *registry) init() {
	r.once.Do(func() {
		r.byName = make(map[string]Compressor)
		r.byTag = make(map[Tag]Compressor)

		register := func(c Compressor) {
			r.byName[c.Name()] = c
			r.names = append(r.names, c.Name())
			if _, exists := r.byTag[c.Tag()]; !exists {
				r.byTag[c.Tag()] = c
			}
		}

		register(identityCompressor{})
		register(newSnappyCompressor())
		for _, lvl := range []int{1, 3, 8} {
			register(newZstdCompressor(lvl))
		}
		for _, lvl := range []int{1, 6, 9} {
			register(newDeflateCompressor(lvl))
			register(newZlibCompressor(lvl))
			register(newGzipCompressor(lvl))
			register(newBzip2Compressor(lvl))
		}
		for _, lvl := range []int{1, 6, 9} {
			register(newLZMACompressor(lvl))
		}
		for _, lvl := range []int{0, 4, 8} {
			register(newBrotliCompressor(lvl))
		}
		register(newLZ4Compressor())
	})
}

// ListNames returns the stable, registered compressor names.
func ListNames() []string {
	reg.init()
	out := make([]string, len(reg.names))
	copy(out, reg.names)
	return out
}

// Build looks up a compressor by name.
func Build(name string) (Compressor, error) {
	reg.init()
	c, ok := reg.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return c, nil
}

// BuildByTag looks up a decoder-capable compressor for a stable tag, used at
// decompress time when only the tag survived in a pack header. Decompress is
// level-independent for every family member, so any registered instance for
// the tag suffices.
func BuildByTag(tag Tag) (Compressor, error) {
	reg.init()
	c, ok := reg.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownAlgorithm, tag)
	}
	return c, nil
}

type identityCompressor struct{}

func (identityCompressor) Name() string { return "None" }
func (identityCompressor) Tag() Tag     { return TagNone }
func (identityCompressor) Compress(data []byte) ([]byte, Tag, error) {
	return data, TagNone, nil
}
func (identityCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// shrinkOrVerbatim implements the "smaller or original" contract shared by
// every non-identity compressor.
func shrinkOrVerbatim(encoded []byte, err error, original []byte, tag Tag) ([]byte, Tag, error) {
	if err != nil {
		return nil, TagNone, err
	}
	if len(encoded) >= len(original) {
		return original, TagNone, nil
	}
	return encoded, tag, nil
}
