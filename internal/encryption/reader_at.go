package encryption

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/idelchi/goxor/internal/header"
	"github.com/idelchi/goxor/internal/keystream"
)

// ReaderAt decrypts arbitrary ranges of an encrypted file.
// Offsets passed to ReadAt are plaintext offsets; the header is skipped transparently.
type ReaderAt struct {
	src    io.ReaderAt
	key    keystream.Key
	header header.Header
}

// NewReaderAt reads and validates the header of src.
func NewReaderAt(src io.ReaderAt, key keystream.Key) (*ReaderAt, error) {
	if key.IsZero() {
		return nil, keystream.ErrEmptyKey
	}

	buf := make([]byte, header.Size)

	n, err := src.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ioError("reading header", err)
	}

	hdr, err := header.Parse(buf[:n])
	if err != nil {
		return nil, err
	}

	return &ReaderAt{src: src, key: key, header: hdr}, nil
}

// Header returns the parsed header.
func (r *ReaderAt) Header() header.Header {
	return r.header
}

// Size returns the plaintext size recorded in the header.
func (r *ReaderAt) Size() int64 {
	if r.header.OriginalSize > math.MaxInt64-header.Size {
		return math.MaxInt64 - header.Size
	}

	return int64(r.header.OriginalSize)
}

// ReadAt decrypts len(p) bytes starting at plaintext offset off.
// Reads reaching past Size return io.EOF; a payload shorter than recorded yields ErrSizeMismatch.
func (r *ReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}

	size := r.Size()
	if off >= size {
		return 0, io.EOF
	}

	want := p
	if int64(len(p)) > size-off {
		want = p[:size-off]
	}

	n, err := r.src.ReadAt(want, header.Size+off)

	r.key.Transform(want[:n], want[:n], uint64(off))

	switch {
	case n < len(want) && (err == nil || errors.Is(err, io.EOF)):
		return n, fmt.Errorf("%w: payload ends at %d, header records %d bytes", ErrSizeMismatch, off+int64(n), size)
	case n < len(want):
		return n, ioError("reading ciphertext", err)
	case len(want) < len(p):
		return n, io.EOF
	}

	return n, nil
}
