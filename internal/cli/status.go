package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/litecast/internal/config"
	"github.com/roach88/litecast/internal/storage"
)

// NewStatusCommand creates the status command, which reports the
// provisioned state, journal mode and schema version.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report database provisioning status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
				fmt.Fprintf(out, "%s: not provisioned\n", cfg.Database)
				return nil
			}

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			journal, err := storage.Pragma(db, "journal_mode")
			if err != nil {
				return err
			}
			version, err := storage.Pragma(db, "user_version")
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s: provisioned\n", cfg.Database)
			fmt.Fprintf(out, "journal_mode: %s\n", journal)
			fmt.Fprintf(out, "user_version: %s\n", version)
			return nil
		},
	}
}
