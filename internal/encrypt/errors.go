package encrypt

import "errors"

var (
	// ErrUnknownAlgorithm is returned by Build/BuildByTag for an unregistered
	// name or tag.
	ErrUnknownAlgorithm = errors.New("encrypt: unknown algorithm")

	// ErrCiphertextTooShort is returned by Decrypt when the input is too
	// short to hold a nonce. Input that holds a nonce but is too short for
	// an authentication tag fails in the AEAD's Open instead.
	ErrCiphertextTooShort = errors.New("encrypt: ciphertext too short")
)
