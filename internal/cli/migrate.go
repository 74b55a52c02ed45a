package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/litecast/internal/config"
	"github.com/roach88/litecast/internal/migrate"
	"github.com/roach88/litecast/internal/storage"
)

// NewMigrateCommand creates the migrate command, which applies pending
// migrations through the adapter's lock policy.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.Config)
			if err != nil {
				return err
			}
			if cfg.Migrations == "" {
				return fmt.Errorf("no migrations directory configured")
			}

			migrations, err := migrate.LoadDir(cfg.Migrations)
			if err != nil {
				return err
			}

			db, err := storage.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			runner := migrate.NewRunner(db, migrations)
			applied := 0
			err = migrate.LockForMigrations(migrate.PoolConfig{Size: cfg.PoolSize}, func() error {
				n, runErr := runner.Apply(cmd.Context())
				applied = n
				return runErr
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}
