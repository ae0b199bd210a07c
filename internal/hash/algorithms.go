package hash

import (
	"crypto/sha256"
	"crypto/sha512"

	"github.com/cxmcc/tiger"
	"github.com/jzelinskie/whirlpool"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

type blake3Hasher struct{}

func (blake3Hasher) Name() string { return "Blake3" }
func (blake3Hasher) Sum(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}

type blake2s256Hasher struct{}

func (blake2s256Hasher) Name() string { return "Blake2s-256" }
func (blake2s256Hasher) Sum(data []byte) []byte {
	sum := blake2s.Sum256(data)
	return sum[:]
}

type blake2b512Hasher struct{}

func (blake2b512Hasher) Name() string { return "Blake2b-512" }
func (blake2b512Hasher) Sum(data []byte) []byte {
	sum := blake2b.Sum512(data)
	return sum[:]
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return "SHA-256" }
func (sha256Hasher) Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

type sha512Hasher struct{}

func (sha512Hasher) Name() string { return "SHA-512" }
func (sha512Hasher) Sum(data []byte) []byte {
	sum := sha512.Sum512(data)
	return sum[:]
}

type sha3_256Hasher struct{}

func (sha3_256Hasher) Name() string { return "SHA3-256" }
func (sha3_256Hasher) Sum(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}

type sha3_512Hasher struct{}

func (sha3_512Hasher) Name() string { return "SHA3-512" }
func (sha3_512Hasher) Sum(data []byte) []byte {
	sum := sha3.Sum512(data)
	return sum[:]
}

type tigerHasher struct{}

func (tigerHasher) Name() string { return "Tiger" }
func (tigerHasher) Sum(data []byte) []byte {
	h := tiger.New()
	h.Write(data)
	return h.Sum(nil)
}

type whirlpoolHasher struct{}

func (whirlpoolHasher) Name() string { return "Whirlpool" }
func (whirlpoolHasher) Sum(data []byte) []byte {
	h := whirlpool.New()
	h.Write(data)
	return h.Sum(nil)
}
