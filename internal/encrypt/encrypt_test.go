package encrypt

import (
	"bytes"
	"errors"
	"testing"
)

func TestAllEncryptorsRoundTrip(t *testing.T) {
	data := []byte("pack payload destined for the wire")
	passphrase := "correct horse battery staple"

	for _, name := range ListNames() {
		e, err := Build(name)
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		ciphertext, err := e.Encrypt(data, passphrase)
		if err != nil {
			t.Fatalf("%s: Encrypt: %v", name, err)
		}
		out, err := e.Decrypt(ciphertext, passphrase)
		if err != nil {
			t.Fatalf("%s: Decrypt: %v", name, err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("%s: round trip mismatch", name)
		}
	}
}

func TestEncryptNoncesAreFresh(t *testing.T) {
	e, _ := Build("ChaCha20-Poly1305")
	data := []byte("same plaintext twice")
	a, err := e.Encrypt(data, "pw")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := e.Encrypt(data, "pw")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("expected distinct ciphertexts from distinct nonces")
	}
}

func TestWrongPassphraseFailsAuthentication(t *testing.T) {
	e, _ := Build("AES-256-GCM")
	ciphertext, err := e.Encrypt([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := e.Decrypt(ciphertext, "wrong"); err == nil {
		t.Fatalf("expected authentication failure with wrong passphrase")
	}
}

func TestBuildUnknown(t *testing.T) {
	if _, err := Build("nonexistent"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
	if _, err := BuildByTag(Tag(999)); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("expected ErrUnknownAlgorithm, got %v", err)
	}
}
