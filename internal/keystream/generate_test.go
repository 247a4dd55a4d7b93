package keystream_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/idelchi/goxor/internal/keystream"
)

func TestGenerateDeterministicSource(t *testing.T) {
	t.Parallel()

	// 0..15 map directly to the first 16 alphabet characters.
	src := make([]byte, 16)
	for i := range src {
		src[i] = byte(i)
	}

	got, err := keystream.Generate(bytes.NewReader(src), 16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if want := keystream.Alphabet[:16]; got != want {
		t.Fatalf("Generate = %q, want %q", got, want)
	}
}

func TestGenerateRejectsBiasedBytes(t *testing.T) {
	t.Parallel()

	// 0xFF is above the rejection limit and must be skipped; 1 maps to 'b'.
	got, err := keystream.Generate(bytes.NewReader([]byte{0xFF, 0xFF, 1, 1}), 2)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if got != "bb" {
		t.Fatalf("Generate = %q, want %q", got, "bb")
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1} {
		if _, err := keystream.Generate(bytes.NewReader(nil), n); !errors.Is(err, keystream.ErrInvalidLength) {
			t.Errorf("Generate(length=%d) error = %v, want ErrInvalidLength", n, err)
		}
	}
}

func TestGenerateShortSource(t *testing.T) {
	t.Parallel()

	if _, err := keystream.Generate(bytes.NewReader([]byte{1, 2}), 8); err == nil {
		t.Fatal("Generate with exhausted source: expected error")
	}
}

func TestGenerateDefault(t *testing.T) {
	t.Parallel()

	key, err := keystream.GenerateDefault()
	if err != nil {
		t.Fatalf("GenerateDefault: %v", err)
	}

	if len(key) != keystream.DefaultKeyLength {
		t.Fatalf("len = %d, want %d", len(key), keystream.DefaultKeyLength)
	}

	for _, r := range key {
		if !strings.ContainsRune(keystream.Alphabet, r) {
			t.Fatalf("character %q not in alphabet", r)
		}
	}
}
