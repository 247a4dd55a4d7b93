package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/logic"
)

// NewInspectCommand creates a new cobra command for the inspect subcommand.
func NewInspectCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect [flags] [paths...]",
		Aliases: []string{"info"},
		Short:   "Show the header of encrypted files",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunInspect(cfg, streams(cmd))
		},
	}
}
