package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/grocer/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached query results and the staleness marker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assets, _ := cmd.Flags().GetBool("assets")
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Options: globalOptions(cmd),
				Assets:  assets,
			})
		},
	}
	cmd.Flags().BoolP("assets", "a", false, "Also remove mirrored assets")
	return cmd
}
