package encryption

import (
	"errors"
	"fmt"

	"github.com/idelchi/goxor/internal/header"
)

var (
	// ErrInvalidFormat is returned when the input is shorter than a header or carries the wrong magic.
	ErrInvalidFormat = header.ErrInvalidFormat
	// ErrSizeMismatch is returned when the payload length differs from the size recorded in the header.
	ErrSizeMismatch = errors.New("size mismatch")
	// ErrIO wraps failures of the underlying reader, writer or file system.
	ErrIO = errors.New("i/o failure")
	// ErrInvalidChunkSize is returned for non-positive chunk sizes.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	// ErrSamePath is returned when a file would be written over its own input.
	ErrSamePath = errors.New("output path equals input path")
	// ErrOutputConflict is returned when a file's output would overwrite another file of the same run.
	ErrOutputConflict = errors.New("output conflicts with another file")
)

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
