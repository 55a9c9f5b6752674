package commands

import (
	"github.com/spf13/cobra"

	"github.com/depstrap/depstrap/internal/app"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the manifest state of every planned stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cacheDir, _ := cmd.Flags().GetString("cache-dir")

			return c.app.Status(cmd.Context(), app.StatusOptions{
				CacheDir: cacheDir,
			})
		},
	}
	cmd.Flags().String("cache-dir", "", "Override the cache directory")
	return cmd
}
