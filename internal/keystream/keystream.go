// Package keystream implements the repeating-key XOR keystream.
//
// The mask byte for a position is a pure function of the absolute byte offset and the key:
//
//	K[o] = key[o mod len(key)]
//
// There is no internal counter. Callers track the offset themselves, which is what makes
// chunked, resumable and random-access processing produce identical bytes.
package keystream

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrEmptyKey is returned when a zero-length key is supplied.
var ErrEmptyKey = errors.New("key must not be empty")

// Key is a non-empty sequence of key bytes.
// The zero value holds no key material; Mask and Transform panic on it, so obtain keys from NewKey.
type Key struct {
	bytes []byte
}

// NewKey converts s into a Key. Each character's code point is truncated to a single byte.
// Bytes that are not valid UTF-8 are taken as they are, so binary keys keep every byte.
func NewKey(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrEmptyKey
	}

	key := make([]byte, 0, len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			key = append(key, s[i])
		} else {
			key = append(key, byte(r)) //nolint:gosec // truncation to one byte is the key encoding
		}

		i += size
	}

	return Key{bytes: key}, nil
}

// Len returns the number of bytes in the key.
func (k Key) Len() int {
	return len(k.bytes)
}

// IsZero reports whether the key was never initialized.
func (k Key) IsZero() bool {
	return len(k.bytes) == 0
}

// String returns a redacted representation so keys don't leak into logs.
func (k Key) String() string {
	return strings.Repeat("*", len(k.bytes))
}

// Mask returns the keystream byte at the given absolute offset.
func (k Key) Mask(offset uint64) byte {
	k.mustBeSet()

	return k.bytes[offset%uint64(len(k.bytes))]
}

func (k Key) mustBeSet() {
	if k.IsZero() {
		panic("keystream: use of zero Key")
	}
}

// Transform XORs src with the keystream starting at offset and stores the result in dst.
// dst must be at least as long as src; dst and src may be the same slice.
// Applying Transform twice at the same offset restores the input.
func (k Key) Transform(dst, src []byte, offset uint64) {
	if len(src) == 0 {
		return
	}

	k.mustBeSet()

	if len(dst) < len(src) {
		panic("keystream: output smaller than input")
	}

	n := uint64(len(k.bytes))
	pos := offset % n

	for i, b := range src {
		dst[i] = b ^ k.bytes[pos]

		pos++
		if pos == n {
			pos = 0
		}
	}
}

// Apply returns a new slice holding data transformed at offset.
func (k Key) Apply(data []byte, offset uint64) []byte {
	out := make([]byte, len(data))

	k.Transform(out, data, offset)

	return out
}
