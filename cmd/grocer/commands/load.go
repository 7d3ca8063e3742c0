package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/grocer/internal/app"
	"go.trai.ch/zerr"
)

func (c *CLI) newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [loaders...]",
		Short: "Run loaders and print their results",
		Long: "Run the named loaders, or every loader declared in grocer.yaml, concurrently.\n" +
			"Results are printed as one JSON object keyed by loader name unless --out is set.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, _ := cmd.Flags().GetString("out")

			results, err := c.app.Load(cmd.Context(), args, app.LoadOptions{
				Options: globalOptions(cmd),
				OutDir:  outDir,
			})
			if err != nil {
				return err
			}
			if outDir != "" {
				return nil
			}

			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return zerr.Wrap(err, "failed to encode results")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringP("out", "o", "", "Write one <loader>.json file per result into this directory")
	return cmd
}
