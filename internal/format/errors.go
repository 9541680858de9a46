package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnknownFlags indicates a header carried flag bits this version does not define.
	ErrUnknownFlags = errors.New("format: unknown header flags")
	// ErrMisaligned indicates a size that is not a multiple of the word boundary.
	ErrMisaligned = errors.New("format: misaligned size")
)
