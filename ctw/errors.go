package ctw

import "github.com/pkg/errors"

// ErrInsufficientHistory is returned when an operation needs more symbols
// of history than the predictor currently holds.
var ErrInsufficientHistory = errors.New("ctw: insufficient history")

// ErrMalformedSymbols is returned when a caller passes a symbol slice
// containing a value other than 0 or 1.
var ErrMalformedSymbols = errors.New("ctw: malformed symbols")

// ErrNumericInstability is returned when a computed log-probability falls
// outside the range a well-formed weighted mixture can produce.
var ErrNumericInstability = errors.New("ctw: numeric instability")
