package ecc

import (
	"bytes"
	"errors"
	"testing"
)

func TestSECDEDRoundTrip(t *testing.T) {
	codec, err := Build("SECDED")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cases := []int{0, 1, 7, 57, 58, 256, 1000, 4096}
	for _, size := range cases {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 37)
		}

		armored, err := codec.Encode(data)
		if err != nil {
			t.Fatalf("Encode(size=%d): %v", size, err)
		}
		out, err := codec.Decode(armored)
		if err != nil {
			t.Fatalf("Decode(size=%d): %v", size, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip mismatch at size=%d", size)
		}
	}
}

func TestSECDEDCorrectsSingleBitFlip(t *testing.T) {
	codec := newSECDED()
	data := []byte("the quick brown fox jumps over the lazy dog")

	armored, err := codec.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	corrupted := make([]byte, len(armored))
	copy(corrupted, armored)
	corrupted[0] ^= 0x01

	out, err := codec.Decode(corrupted)
	if err != nil {
		t.Fatalf("Decode after single-bit flip: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("single-bit-flip correction produced wrong payload")
	}
}

func TestSECDEDDetectsDoubleBitFlip(t *testing.T) {
	codec := newSECDED()
	data := []byte("the quick brown fox jumps over the lazy dog")

	armored, err := codec.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	corrupted := make([]byte, len(armored))
	copy(corrupted, armored)
	corrupted[0] ^= 0x03 // flip two bits in the first block

	_, err = codec.Decode(corrupted)
	if !errors.Is(err, ErrUnrecoverableCorruption) {
		t.Fatalf("expected ErrUnrecoverableCorruption, got %v", err)
	}
}

func TestSECDEDBlockEncodeDecode(t *testing.T) {
	codec := newSECDED()
	var payload uint64 = 0x1A2B3C4D5E6F7 & (1<<payloadBits - 1)

	codeword := codec.encodeBlock(payload)
	got, err := codec.decodeBlock(codeword)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if got != payload {
		t.Fatalf("block round trip: got %#x, want %#x", got, payload)
	}

	for bit := 0; bit < blockBits; bit++ {
		flipped := codeword ^ (1 << uint(bit))
		got, err := codec.decodeBlock(flipped)
		if err != nil {
			t.Fatalf("decodeBlock with bit %d flipped: %v", bit, err)
		}
		if got != payload {
			t.Fatalf("bit %d flip not corrected: got %#x, want %#x", bit, got, payload)
		}
	}
}

func TestIdentityCodec(t *testing.T) {
	codec, err := Build("None")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data := []byte("pass through")
	out, err := codec.Encode(data)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("identity Encode altered data")
	}
	out, err = codec.Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("identity Decode altered data")
	}
}

func TestBuildUnknownAlgorithm(t *testing.T) {
	if _, err := Build("bogus"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if _, err := BuildByTag(Tag(99)); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestListNames(t *testing.T) {
	names := ListNames()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["None"] || !found["SECDED"] {
		t.Fatalf("expected None and SECDED in %v", names)
	}
}
