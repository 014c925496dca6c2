package bitcodec

import "github.com/pkg/errors"

// ErrMalformedSymbols is returned when a symbol slice passed to Decode
// contains a value other than 0 or 1, or has the wrong width.
var ErrMalformedSymbols = errors.New("bitcodec: malformed symbols")
