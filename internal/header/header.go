// Package header encodes and decodes the fixed 16-byte prefix of every encrypted file.
//
// Format (all fields little-endian):
//
//	[ magic uint32 ][ version uint32 ][ original size uint64 ]
//
// The header is written in the clear. The keystream offset of the first payload byte is 0.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// Magic identifies the file format ("MGPK" read as a little-endian uint32).
	Magic uint32 = 0x4B50474D
	// CurrentVersion is the only format version produced and accepted.
	CurrentVersion uint32 = 1

	magicLen   = 4
	versionLen = 4
	sizeLen    = 8

	// Size is the total header length in bytes.
	Size = magicLen + versionLen + sizeLen
)

var (
	// ErrInvalidFormat is returned when the input is too short to hold a header or the magic is wrong.
	ErrInvalidFormat = errors.New("invalid encrypted file")
	// ErrUnsupportedVersion is returned for headers with an unknown version. It also matches ErrInvalidFormat.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrInvalidFormat)
)

// Header describes the plaintext that follows it.
type Header struct {
	Magic        uint32
	Version      uint32
	OriginalSize uint64
}

// New returns a header for a plaintext of the given size.
func New(size uint64) Header {
	return Header{
		Magic:        Magic,
		Version:      CurrentVersion,
		OriginalSize: size,
	}
}

// Pack serializes the header into Size bytes.
func (h Header) Pack() []byte {
	buf := make([]byte, Size)

	binary.LittleEndian.PutUint32(buf[0:magicLen], h.Magic)
	binary.LittleEndian.PutUint32(buf[magicLen:magicLen+versionLen], h.Version)
	binary.LittleEndian.PutUint64(buf[magicLen+versionLen:], h.OriginalSize)

	return buf
}

// WriteTo writes the packed header to w.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h.Pack())
	if err != nil {
		return int64(n), fmt.Errorf("writing header: %w", err)
	}

	return int64(n), nil
}

// Parse decodes the first Size bytes of buf.
func Parse(buf []byte) (Header, error) {
	if len(buf) < Size {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, got %d", ErrInvalidFormat, Size, len(buf))
	}

	h := Header{
		Magic:        binary.LittleEndian.Uint32(buf[0:magicLen]),
		Version:      binary.LittleEndian.Uint32(buf[magicLen : magicLen+versionLen]),
		OriginalSize: binary.LittleEndian.Uint64(buf[magicLen+versionLen : Size]),
	}

	if h.Magic != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %#08x", ErrInvalidFormat, h.Magic)
	}

	if h.Version != CurrentVersion {
		return Header{}, fmt.Errorf("%w %d, want %d", ErrUnsupportedVersion, h.Version, CurrentVersion)
	}

	return h, nil
}

// Read consumes exactly Size bytes from r and parses them.
func Read(r io.Reader) (Header, error) {
	buf := make([]byte, Size)

	n, err := io.ReadFull(r, buf)

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return Header{}, fmt.Errorf("%w: missing header (%d of %d bytes)", ErrInvalidFormat, n, Size)
	case err != nil:
		return Header{}, fmt.Errorf("reading header: %w", err)
	}

	return Parse(buf)
}
