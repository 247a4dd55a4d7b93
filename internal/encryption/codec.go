package encryption

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/idelchi/goxor/internal/fileutil"
	"github.com/idelchi/goxor/internal/header"
	"github.com/idelchi/goxor/internal/keystream"
)

// DefaultSuffix is appended to encrypted file names.
const DefaultSuffix = ".encrypted"

// Codec encrypts and decrypts streams with a single key.
// It holds no per-stream state and is safe for concurrent use.
type Codec struct {
	key       keystream.Key
	chunkSize int
}

// Option configures a Codec.
type Option func(*Codec)

// WithChunkSize sets the number of bytes processed per read.
func WithChunkSize(size int) Option {
	return func(c *Codec) {
		c.chunkSize = size
	}
}

// NewCodec returns a Codec for key.
func NewCodec(key keystream.Key, opts ...Option) (*Codec, error) {
	if key.IsZero() {
		return nil, keystream.ErrEmptyKey
	}

	codec := &Codec{key: key, chunkSize: DefaultChunkSize}

	for _, opt := range opts {
		opt(codec)
	}

	if codec.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, codec.chunkSize)
	}

	return codec, nil
}

// Encrypt writes the header for a plaintext of size bytes followed by the encrypted contents of src.
// It returns the number of bytes written to dst.
// If src does not yield exactly size bytes, ErrSizeMismatch is returned.
func (c *Codec) Encrypt(dst io.Writer, src io.Reader, size uint64) (int64, error) {
	written, err := header.New(size).WriteTo(dst)
	if err != nil {
		return written, fmt.Errorf("%w: %w", ErrIO, err)
	}

	buf, release := chunkBuffer(c.chunkSize)
	defer release()

	// The header is not part of the keystream.
	var offset uint64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			c.key.Transform(buf[:n], buf[:n], offset)

			m, err := dst.Write(buf[:n])
			written += int64(m)

			if err != nil {
				return written, ioError("writing ciphertext", err)
			}

			offset += uint64(n)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return written, ioError("reading plaintext", readErr)
		}
	}

	if offset != size {
		return written, fmt.Errorf("%w: header records %d bytes, source yielded %d", ErrSizeMismatch, size, offset)
	}

	return written, nil
}

// Decrypt reads a header and the payload it describes from src and writes the plaintext to dst.
// It returns the number of plaintext bytes written.
// Bytes following the declared payload are not read.
func (c *Codec) Decrypt(dst io.Writer, src io.Reader) (int64, error) {
	hdr, err := header.Read(src)
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			return 0, err
		}

		return 0, fmt.Errorf("%w: %w", ErrIO, err)
	}

	buf, release := chunkBuffer(c.chunkSize)
	defer release()

	var (
		offset    uint64
		written   int64
		remaining = hdr.OriginalSize
	)

	for remaining > 0 {
		want := min(uint64(len(buf)), remaining)

		n, readErr := io.ReadFull(src, buf[:want])
		if n > 0 {
			c.key.Transform(buf[:n], buf[:n], offset)

			m, err := dst.Write(buf[:n])
			written += int64(m)

			if err != nil {
				return written, ioError("writing plaintext", err)
			}

			offset += uint64(n)
			remaining -= uint64(n)
		}

		// A short read means the input is truncated; the size check below reports it.
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}

		if readErr != nil {
			return written, ioError("reading ciphertext", readErr)
		}
	}

	if remaining != 0 {
		return written, fmt.Errorf("%w: expected size %d, got %d", ErrSizeMismatch, hdr.OriginalSize, offset)
	}

	return written, nil
}

// EncryptFile encrypts src into dst and returns the size of dst.
func (c *Codec) EncryptFile(src, dst string) (int64, error) {
	return c.convertFile(src, dst, func(w io.Writer, r io.Reader, info os.FileInfo) (int64, error) {
		return c.Encrypt(w, r, uint64(info.Size())) //nolint:gosec // file sizes are non-negative
	})
}

// DecryptFile decrypts src into dst and returns the size of dst.
func (c *Codec) DecryptFile(src, dst string) (int64, error) {
	return c.convertFile(src, dst, func(w io.Writer, r io.Reader, _ os.FileInfo) (int64, error) {
		return c.Decrypt(w, r)
	})
}

type convertFunc func(w io.Writer, r io.Reader, info os.FileInfo) (int64, error)

// convertFile runs convert from src into a temporary file next to dst and renames it into place.
// The temporary file is removed on failure; all handles are closed on every path.
func (c *Codec) convertFile(src, dst string, convert convertFunc) (int64, error) {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return 0, fmt.Errorf("%w: %q", ErrSamePath, src)
	}

	out, err := fileutil.Create(src, dst)
	if err != nil {
		return 0, ioError("preparing atomic write", err)
	}
	defer out.Abort()

	inFile, err := os.Open(filepath.Clean(src))
	if err != nil {
		return 0, ioError("opening input file", err)
	}
	defer inFile.Close()

	size, err := convert(out, inFile, out.Source)
	if err != nil {
		return 0, err
	}

	if err := out.Commit(); err != nil {
		return 0, ioError("committing output", err)
	}

	return size, nil
}
