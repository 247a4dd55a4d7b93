// Package config holds the runtime configuration shared by all commands.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/gogen/pkg/validator"
)

// ErrUsage indicates an error in command-line usage or configuration.
var ErrUsage = errors.New("usage error")

// Key selects where the encryption key comes from. At most one of String and File may be set.
type Key struct {
	String string `label:"--key"      mapstructure:"key"      mask:"filled" validate:"exclusive=File"`
	File   string `label:"--key-file" mapstructure:"key-file"`
	Ask    bool   `label:"--ask"      mapstructure:"ask"`
}

// Suffixes control output file naming.
type Suffixes struct {
	Encrypt string `label:"--encrypt-ext" mapstructure:"encrypt-ext" validate:"required"`
	Decrypt string `label:"--decrypt-ext" mapstructure:"decrypt-ext"`
}

// Generate holds parameters for key generation.
type Generate struct {
	// Length is the number of characters in the key.
	Length int `label:"--length" validate:"min=1"`
}

// Config holds the configuration resolved from flags and GOXOR_* environment variables.
type Config struct {
	Key      Key      `mapstructure:",squash"`
	Suffixes Suffixes `mapstructure:",squash"`

	// Generate is validated only by the generate command.
	Generate Generate `mapstructure:",squash" validate:"-"`

	Show               bool
	Parallel           int `label:"--parallel" validate:"min=1"`
	Quiet              bool
	Delete             bool
	Dry                bool
	Stats              bool
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`
	ChunkSize          string `label:"--chunk-size" mapstructure:"chunk-size" validate:"required,bytesize"`
	Output             string

	// Suffix restricts directory walks to files ending in it.
	Suffix      string
	Include     []string
	Exclude     []string
	IncludeFrom string `mapstructure:"include-from"`
	ExcludeFrom string `mapstructure:"exclude-from"`

	// Set by the decrypt command, never by flags.
	Decrypt bool `mapstructure:"-"`

	// Positional arguments
	Files []string `label:"paths" mapstructure:"-" validate:"min=1"`
}

// ErrInvalidChunkSize is returned when the chunk size cannot be used.
var ErrInvalidChunkSize = errors.New("invalid chunk size")

// ChunkBytes returns the chunk size in bytes.
func (c *Config) ChunkBytes() (int, error) {
	return parseChunkSize(c.ChunkSize)
}

// Display returns the value of the Show field.
func (c *Config) Display() bool {
	return c.Show
}

// Validate checks config against its struct tags.
// It returns a wrapped ErrUsage if any validation rules are violated.
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := register(validator); err != nil {
		return err
	}

	errs := validator.Validate(config)

	switch {
	case errs == nil:
		return nil
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	default:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}
}

func parseChunkSize(s string) (int, error) {
	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidChunkSize, err)
	}

	if size == 0 || size > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q must be between 1 byte and 2GiB", ErrInvalidChunkSize, s)
	}

	return int(size), nil
}
