package commands

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/keystream"
)

// NewGenerateCommand creates a new cobra command printing a random key.
func NewGenerateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new encryption key",
		Args:    cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return cobraext.Validate(cfg, &cfg.Generate)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := keystream.Generate(rand.Reader, cfg.Generate.Length)
			if err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), key)

			return nil
		},
	}

	cmd.Flags().IntP("length", "l", keystream.DefaultKeyLength, "Number of characters in the key")

	return cmd
}
