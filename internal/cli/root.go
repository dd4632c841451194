// Package cli defines the lingo command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Version    string
	Commit     string
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the server.
func NewRootCommand(version, commit string) *cobra.Command {
	opts := &RootOptions{Version: version, Commit: commit}

	cmd := &cobra.Command{
		Use:           "lingo",
		Short:         "Language learning content and progress service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigFile != "" {
				return os.Setenv("LINGO_CONFIG", opts.ConfigFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (overrides LINGO_CONFIG)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewContentCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
