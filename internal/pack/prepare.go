package pack

import (
	"fmt"

	"github.com/quantarax/snapshot/internal/compress"
	"github.com/quantarax/snapshot/internal/ecc"
	"github.com/quantarax/snapshot/internal/encrypt"
	"github.com/quantarax/snapshot/internal/hash"
)

// ChunkLocation is where a chunk's raw bytes live inside a pack's buffer:
// offset and length are recorded against the pre-transform layout, since the
// pack header layout that would let a reader locate a chunk post-compression
// is out of scope here.
type ChunkLocation struct {
	Key    ChunkKey
	Offset int64
	Length int64
}

// PreparedPack is the result of carrying a pack's buffer through every
// preparation step: the final armored bytes ready for storage, the whole
// pack's content hash, each chunk's raw-layout location, and the tags
// storage must record to reverse the transformation later.
type PreparedPack struct {
	ID             string
	Data           []byte
	PackHash       []byte
	ChunkLocations []ChunkLocation
	CompressTag    compress.Tag
	EncryptTag     encrypt.Tag
	ECCTag         ecc.Tag
}

// Prepare carries a pack through hashing, compression, encryption, and ECC
// armoring, each step taking the buffer, transforming it, and putting it
// back — the chunks that make up the pack never get copied individually.
// Per-chunk hashes are the pack-assemble stage's job, computed as each chunk
// arrives; Prepare only hashes the pack as a whole.
func Prepare(
	p *PackBuilder,
	hasher hash.Hasher,
	compressor compress.Compressor,
	encryptor encrypt.Encryptor,
	eccCodec ecc.Codec,
	passphrase string,
) (PreparedPack, error) {
	if p.Phase() != PhaseRaw {
		return PreparedPack{}, fmt.Errorf("pack: %s already prepared (phase %s)", p.ID(), p.Phase())
	}

	refs := p.Refs()
	locations := make([]ChunkLocation, len(refs))
	for i, ref := range refs {
		locations[i] = ChunkLocation{Key: ref.Key, Offset: ref.Offset, Length: ref.Length}
	}

	raw := p.Take()
	packHash := hasher.Sum(raw)
	p.PutBack(raw, PhaseHashed)

	buf := p.Take()
	compressed, compressTag, err := compressor.Compress(buf)
	if err != nil {
		p.PutBack(buf, PhaseHashed)
		return PreparedPack{}, fmt.Errorf("pack: compressing %s: %w", p.ID(), err)
	}
	p.PutBack(compressed, PhaseCompressed)

	buf = p.Take()
	encrypted, err := encryptor.Encrypt(buf, passphrase)
	if err != nil {
		p.PutBack(buf, PhaseCompressed)
		return PreparedPack{}, fmt.Errorf("pack: encrypting %s: %w", p.ID(), err)
	}
	p.PutBack(encrypted, PhaseEncrypted)

	buf = p.Take()
	armored, err := eccCodec.Encode(buf)
	if err != nil {
		p.PutBack(buf, PhaseEncrypted)
		return PreparedPack{}, fmt.Errorf("pack: armoring %s: %w", p.ID(), err)
	}
	p.PutBack(armored, PhaseArmored)

	return PreparedPack{
		ID:             p.ID(),
		Data:           armored,
		PackHash:       packHash,
		ChunkLocations: locations,
		CompressTag:    compressTag,
		EncryptTag:     encryptor.Tag(),
		ECCTag:         eccCodec.Tag(),
	}, nil
}
