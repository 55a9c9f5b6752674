package commands

import (
	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Clone and build the dependency stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			skipTests, _ := cmd.Flags().GetBool("skip-tests")
			only, _ := cmd.Flags().GetString("only")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				Force:      force,
				SkipTests:  skipTests,
				Only:       only,
				CacheDir:   cacheDir,
				OutputMode: outputMode,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Bypass the stage manifest and rebuild everything")
	cmd.Flags().Bool("skip-tests", false, "Skip stage test and benchmark commands")
	cmd.Flags().String("only", "", "Stop the pipeline after the named stage")
	cmd.Flags().String("cache-dir", "", "Override the cache directory")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, pretty, linear, or json")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	return cmd
}
