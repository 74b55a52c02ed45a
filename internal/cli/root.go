// Package cli implements the litecast operator commands: provisioning
// the database file, tearing it down, and running migrations.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Verbose bool
}

// NewRootCommand creates the root command for the litecast CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "litecast",
		Short: "SQLite storage lifecycle and migration runner",
		Long:  "litecast provisions SQLite database files with WAL durability and runs schema migrations under the adapter's lock policy.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config == "" {
				return fmt.Errorf("--config is required")
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "litecast.yaml", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewUpCommand(opts))
	cmd.AddCommand(NewDownCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}
