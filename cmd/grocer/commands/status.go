package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.trai.ch/grocer/internal/app"
	"go.trai.ch/grocer/internal/ui/output"
	"go.trai.ch/grocer/internal/ui/style"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List cached query results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetBool("check")

			report, err := c.app.Status(cmd.Context(), app.StatusOptions{
				Options: globalOptions(cmd),
				Check:   check,
			})
			if err != nil {
				return err
			}
			return renderStatus(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().Bool("check", false, "Ask the content API whether the cache is stale")
	return cmd
}

func renderStatus(w io.Writer, report *app.StatusReport) error {
	r := lipgloss.NewRenderer(w)
	if output.ColorProfile() == termenv.Ascii {
		r.SetColorProfile(termenv.Ascii)
	}

	if _, err := fmt.Fprintf(w, "Cache: %s\n", report.CacheDir); err != nil {
		return err
	}

	if len(report.Slots) == 0 {
		if _, err := fmt.Fprintln(w, "No cache entries."); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "NAME\tVERSION\tFINGERPRINT\tSIZE\tMODIFIED")
		for _, slot := range report.Slots {
			version := slot.Version
			if version == "" {
				version = "-"
			}
			fingerprint := slot.Fingerprint
			if slot.Corrupt {
				fingerprint = style.Label(r, style.Red, style.Cross+" corrupt")
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d B\t%s\n",
				slot.Name,
				version,
				fingerprint,
				slot.Size,
				slot.ModTime.UTC().Format(time.RFC3339),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !report.Checked {
		return nil
	}

	verdict := style.Label(r, style.Green, style.Check+" fresh")
	if report.Stale {
		verdict = style.Label(r, style.Yellow, style.Warning+" stale")
	}
	_, err := fmt.Fprintf(w, "Content: %s\n", verdict)
	return err
}
