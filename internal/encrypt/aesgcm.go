package encrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// aesGCMEncryptor implements AES-GCM at either the 256-bit or 128-bit key
// size, selected by keyLen.
type aesGCMEncryptor struct {
	keyLen int
}

func newAESGCMEncryptor(keyLen int) *aesGCMEncryptor {
	return &aesGCMEncryptor{keyLen: keyLen}
}

func (a *aesGCMEncryptor) Name() string {
	if a.keyLen == 16 {
		return "AES-128-GCM"
	}
	return "AES-256-GCM"
}

func (a *aesGCMEncryptor) Tag() Tag {
	if a.keyLen == 16 {
		return TagAES128GCM
	}
	return TagAES256GCM
}

func (a *aesGCMEncryptor) ExtraSpace() int {
	return 12 + 16 // GCM standard nonce size + authentication tag
}

func (a *aesGCMEncryptor) aead(passphrase string) (cipher.AEAD, error) {
	key := deriveKey(passphrase, uint32(a.keyLen))
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %s setup: %w", a.Name(), err)
	}
	return cipher.NewGCM(block)
}

func (a *aesGCMEncryptor) Encrypt(data []byte, passphrase string) ([]byte, error) {
	gcm, err := a.aead(passphrase)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("encrypt: generating nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

func (a *aesGCMEncryptor) Decrypt(data []byte, passphrase string) ([]byte, error) {
	gcm, err := a.aead(passphrase)
	if err != nil {
		return nil, err
	}

	if len(data) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
