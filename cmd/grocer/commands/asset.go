package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asset <url>...",
		Short: "Mirror remote assets and print their public paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.app.SaveAssets(cmd.Context(), args, globalOptions(cmd))
			if err != nil {
				return err
			}
			for _, p := range paths {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
