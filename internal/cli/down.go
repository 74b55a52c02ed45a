package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/litecast/internal/config"
	"github.com/roach88/litecast/internal/storage"
)

// NewDownCommand creates the down command, which removes the database
// file and its -wal/-shm companions.
func NewDownCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Delete the database file and its companions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}

			status, err := storage.Down(cfg.Database)
			if err != nil {
				return err
			}

			switch status {
			case storage.StatusAlreadyDown:
				fmt.Fprintf(cmd.OutOrStdout(), "already down: %s\n", cfg.Database)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", cfg.Database)
			}
			return nil
		},
	}
}
