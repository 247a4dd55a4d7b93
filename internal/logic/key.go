package logic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/keystream"
)

// ErrKeyRequired is returned when decrypting without any key source.
var ErrKeyRequired = errors.New("decryption requires --key, --key-file or --ask")

// promptKey reads a key from the terminal. Replaced in tests.
//
//nolint:gochecknoglobals
var promptKey = func(prompt string, stderr io.Writer) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", errors.New("--ask requires an interactive terminal")
	}

	fmt.Fprint(stderr, prompt)

	key, err := term.ReadPassword(fd)

	fmt.Fprintln(stderr)

	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}

	return string(key), nil
}

// resolveKey fills cfg.Key.String from the configured source.
// Encrypting without any source generates a key and prints it, since it is needed to decrypt.
func resolveKey(cfg *config.Config, stderr io.Writer) error {
	switch {
	case cfg.Key.String != "":
		return nil
	case cfg.Key.File != "":
		data, err := os.ReadFile(cfg.Key.File)
		if err != nil {
			return fmt.Errorf("reading key file: %w", err)
		}

		cfg.Key.String = strings.TrimRight(string(data), "\r\n")
	case cfg.Key.Ask:
		key, err := promptKey("Key: ", stderr)
		if err != nil {
			return err
		}

		cfg.Key.String = key
	case cfg.Decrypt:
		return ErrKeyRequired
	default:
		key, err := keystream.GenerateDefault()
		if err != nil {
			return fmt.Errorf("generating key: %w", err)
		}

		cfg.Key.String = key

		fmt.Fprintf(stderr, "Generated random key: %s\n", key)
		fmt.Fprintln(stderr, "Please save this key for decryption.")
	}

	if cfg.Key.String == "" {
		return fmt.Errorf("reading key: %w", keystream.ErrEmptyKey)
	}

	return nil
}
