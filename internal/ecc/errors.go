package ecc

import "errors"

var (
	// ErrUnknownAlgorithm is returned by Build/BuildByTag for an unregistered name or tag.
	ErrUnknownAlgorithm = errors.New("ecc: unknown algorithm")

	// ErrUnrecoverableCorruption is returned by Decode when a block carries
	// more bit errors than the codec can correct.
	ErrUnrecoverableCorruption = errors.New("ecc: unrecoverable corruption detected")
)
