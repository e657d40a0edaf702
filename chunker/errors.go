package chunker

import "errors"

var (
	// ErrInvalidChunkSize is returned for a chunk size below one rune.
	ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

	// ErrInvalidOverlap is returned for a negative overlap.
	ErrInvalidOverlap = errors.New("overlap cannot be negative")

	// ErrInvalidMinChunkSize is returned for a negative minimum chunk size.
	ErrInvalidMinChunkSize = errors.New("min chunk size cannot be negative")
)
