package compress

import "errors"

// ErrUnknownAlgorithm is returned by Build/BuildByTag for an unregistered
// name or tag.
var ErrUnknownAlgorithm = errors.New("compress: unknown algorithm")
