// Package bitcodec converts non-negative integers (action indices,
// observation/reward symbols) to and from fixed-width, most-significant-
// bit-first binary sequences, the wire format the agent loop exchanges
// with the context tree predictor.
package bitcodec

import (
	"math/bits"

	"github.com/pkg/errors"
)

// WidthForValues returns the number of bits needed to address n distinct
// values (0 through n-1). WidthForValues(1) is 0: a single possible value
// needs no bits to distinguish.
func WidthForValues(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Encode returns the width-bit, most-significant-bit-first binary
// representation of value.
func Encode(value, width int) ([]int, error) {
	if width < 0 || value < 0 {
		return nil, errors.WithStack(ErrMalformedSymbols)
	}
	if width < bits.UintSize && value >= 1<<uint(width) {
		return nil, errors.WithStack(ErrMalformedSymbols)
	}
	out := make([]int, width)
	for i := 0; i < width; i++ {
		shift := width - 1 - i
		out[i] = (value >> uint(shift)) & 1
	}
	return out, nil
}

// Decode reconstructs the integer encoded by a width-bit,
// most-significant-bit-first symbol sequence.
func Decode(symbols []int, width int) (int, error) {
	if len(symbols) != width {
		return 0, errors.WithStack(ErrMalformedSymbols)
	}
	value := 0
	for _, s := range symbols {
		if s != 0 && s != 1 {
			return 0, errors.WithStack(ErrMalformedSymbols)
		}
		value = value<<1 | s
	}
	return value, nil
}
