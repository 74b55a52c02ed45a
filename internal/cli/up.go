package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/litecast/internal/config"
	"github.com/roach88/litecast/internal/storage"
)

// NewUpCommand creates the up command, which provisions the database
// file with WAL durability.
func NewUpCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Provision the database file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}

			status, err := storage.Up(cfg.Database)
			if err != nil {
				return err
			}

			switch status {
			case storage.StatusAlreadyUp:
				fmt.Fprintf(cmd.OutOrStdout(), "already up: %s\n", cfg.Database)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "created: %s\n", cfg.Database)
			}
			return nil
		},
	}
}
