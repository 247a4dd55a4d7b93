package keystream

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	// Alphabet is the set of characters random keys are drawn from.
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-=[]{}|;:,.<>?"

	// DefaultKeyLength is the length of generated keys when none is requested.
	DefaultKeyLength = 16
)

// ErrInvalidLength is returned when a key of non-positive length is requested.
var ErrInvalidLength = errors.New("key length must be positive")

// Generate returns a key of the given length drawn uniformly from Alphabet,
// using rng as the source of randomness.
func Generate(rng io.Reader, length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	// Largest multiple of len(Alphabet) that fits in a byte; bytes at or above it are rejected
	// to keep the distribution uniform.
	limit := 256 - 256%len(Alphabet)

	key := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(key) < length {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}

		for _, b := range buf {
			if int(b) >= limit {
				continue
			}

			key = append(key, Alphabet[int(b)%len(Alphabet)])

			if len(key) == length {
				break
			}
		}
	}

	return string(key), nil
}

// GenerateDefault returns a DefaultKeyLength key from crypto/rand.
func GenerateDefault() (string, error) {
	return Generate(rand.Reader, DefaultKeyLength)
}
