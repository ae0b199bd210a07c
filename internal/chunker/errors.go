package chunker

import "errors"

// ErrUnknownAlgorithm is returned by Build for an unregistered chunker name.
var ErrUnknownAlgorithm = errors.New("chunker: unknown algorithm")
