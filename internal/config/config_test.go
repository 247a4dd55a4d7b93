package config_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/idelchi/goxor/internal/config"
)

func valid() config.Config {
	return config.Config{
		Key:       config.Key{String: "secret"},
		Suffixes:  config.Suffixes{Encrypt: ".encrypted"},
		Parallel:  2,
		ChunkSize: "32KiB",
		Files:     []string{"."},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"key and key file", func(c *config.Config) { c.Key.File = "key.txt" }, "--key is mutually exclusive with File"},
		{"no files", func(c *config.Config) { c.Files = nil }, "paths must contain at least 1"},
		{"zero parallel", func(c *config.Config) { c.Parallel = 0 }, "--parallel must be 1 or greater"},
		{"missing suffix", func(c *config.Config) { c.Suffixes.Encrypt = "" }, "--encrypt-ext is a required field"},
		{"bad chunk size", func(c *config.Config) { c.ChunkSize = "lots" }, "--chunk-size must be a size"},
		{"zero chunk size", func(c *config.Config) { c.ChunkSize = "0" }, "--chunk-size must be a size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate(&cfg)

			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}

				return
			}

			if !errors.Is(err, config.ErrUsage) || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() = %v, want usage error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	t.Parallel()

	cfg := valid()
	cfg.Parallel = 0
	cfg.Files = nil

	err := cfg.Validate(&cfg)
	if !errors.Is(err, config.ErrUsage) {
		t.Fatalf("Validate() = %v, want ErrUsage", err)
	}

	for _, want := range []string{"--parallel", "paths"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %v, want mention of %s", err, want)
		}
	}
}

func TestValidateGenerate(t *testing.T) {
	t.Parallel()

	cfg := valid()

	if err := cfg.Validate(&cfg); err != nil {
		t.Fatalf("Validate() = %v, generate settings must not affect other commands", err)
	}

	if err := cfg.Validate(&cfg.Generate); !errors.Is(err, config.ErrUsage) {
		t.Fatalf("Validate(generate) = %v, want ErrUsage for length 0", err)
	}

	cfg.Generate.Length = 16

	if err := cfg.Validate(&cfg.Generate); err != nil {
		t.Fatalf("Validate(generate) = %v", err)
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	cfg := valid()
	if cfg.Display() {
		t.Fatal("Display() = true without --show")
	}

	cfg.Show = true
	if !cfg.Display() {
		t.Fatal("Display() = false with --show")
	}
}

func TestChunkBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"1", 1},
		{"7", 7},
		{"32KiB", 32 * 1024},
		{"1MB", 1000 * 1000},
	}

	for _, tc := range tests {
		cfg := valid()
		cfg.ChunkSize = tc.in

		got, err := cfg.ChunkBytes()
		if err != nil {
			t.Fatalf("ChunkBytes(%q): %v", tc.in, err)
		}

		if got != tc.want {
			t.Errorf("ChunkBytes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	cfg := valid()
	cfg.ChunkSize = "3GiB"

	if _, err := cfg.ChunkBytes(); !errors.Is(err, config.ErrInvalidChunkSize) {
		t.Fatalf("ChunkBytes(3GiB) error = %v, want ErrInvalidChunkSize", err)
	}
}
