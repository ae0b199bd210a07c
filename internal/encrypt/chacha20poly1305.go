package encrypt

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

type chacha20poly1305Encryptor struct{}

func newChaCha20Poly1305Encryptor() *chacha20poly1305Encryptor {
	return &chacha20poly1305Encryptor{}
}

func (*chacha20poly1305Encryptor) Name() string { return "ChaCha20-Poly1305" }
func (*chacha20poly1305Encryptor) Tag() Tag      { return TagChaCha20Poly1305 }
func (*chacha20poly1305Encryptor) ExtraSpace() int {
	return chacha20poly1305.NonceSize + chacha20poly1305.Overhead
}

func (c *chacha20poly1305Encryptor) Encrypt(data []byte, passphrase string) ([]byte, error) {
	key := deriveKey(passphrase, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: chacha20poly1305 setup: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("encrypt: generating nonce: %w", err)
	}

	out := aead.Seal(nonce, nonce, data, nil)
	return out, nil
}

func (c *chacha20poly1305Encryptor) Decrypt(data []byte, passphrase string) ([]byte, error) {
	key := deriveKey(passphrase, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: chacha20poly1305 setup: %w", err)
	}

	if len(data) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}
