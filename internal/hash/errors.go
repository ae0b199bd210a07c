package hash

import "errors"

// ErrUnknownAlgorithm is returned by Build for an unregistered hasher name.
var ErrUnknownAlgorithm = errors.New("hash: unknown algorithm")
