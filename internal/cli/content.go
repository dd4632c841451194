package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/lingo/internal/config"
	"github.com/mrlokans/lingo/internal/content"
)

// ContentOptions holds flags for content commands.
type ContentOptions struct {
	Strict bool
}

// NewContentCommand creates the content command group.
func NewContentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect the content library",
	}
	cmd.AddCommand(newContentValidateCommand())
	return cmd
}

func newContentValidateCommand() *cobra.Command {
	opts := &ContentOptions{}

	cmd := &cobra.Command{
		Use:   "validate [content-dir]",
		Short: "Load a content directory and report problems",
		Long: `Load a content directory the same way the server does and print
warnings for incomplete material such as units without exercises.

The directory defaults to CONTENT_DIR.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			} else {
				dir = config.NewConfig().Content.Dir
			}
			return runContentValidate(opts, dir, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat warnings as errors")

	return cmd
}

func runContentValidate(opts *ContentOptions, dir string, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	warnings, err := content.Validate(dir)
	if err != nil {
		return fmt.Errorf("content in %s is invalid: %w", dir, err)
	}

	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	lib, err := content.Load(dir)
	if err != nil {
		return err
	}
	stats := lib.Stats()
	fmt.Fprintf(out, "%d languages, %d modules, %d units, %d exercises\n",
		stats.Languages, stats.Modules, stats.Units, stats.Exercises)

	if opts.Strict && len(warnings) > 0 {
		return fmt.Errorf("%d warnings", len(warnings))
	}
	return nil
}
