package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/tend/internal/app"
	"go.trai.ch/tend/internal/ui/report"
)

func (c *CLI) newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Show the summary of a stored run (default: the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			opts := app.ReportOptions{
				ConfigPath: configPath(cmd),
				Output:     output,
			}
			if len(args) == 1 {
				opts.RunID = args[0]
			}
			return c.app.Report(opts)
		},
	}
	cmd.Flags().StringP("output", "o", report.FormatText, "Summary format ("+strings.Join(report.Formats, "|")+")")
	return cmd
}
