package commands

import (
	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stage manifest records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, _ := cmd.Flags().GetBool("sources")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				CacheDir: cacheDir,
				Sources:  sources,
			})
		},
	}

	cmd.Flags().BoolP("sources", "s", false, "Also remove the cached repository checkouts")
	cmd.Flags().String("cache-dir", "", "Override the cache directory")

	return cmd
}
