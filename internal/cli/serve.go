package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/lingo/internal/config"
	"github.com/mrlokans/lingo/internal/entrypoint"
	"github.com/mrlokans/lingo/internal/logging"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts)
		},
	}
}

func runServe(opts *RootOptions) error {
	cfg := config.NewConfig()
	logger := logging.Must(cfg.Log)
	defer logger.Sync() //nolint:errcheck

	return entrypoint.Run(cfg, logger, opts.Version)
}
