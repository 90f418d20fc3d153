package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/tend/internal/app"
	"go.trai.ch/tend/internal/ui/report"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the maintenance sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			output, _ := cmd.Flags().GetString("output")
			skip, _ := cmd.Flags().GetStringSlice("skip")
			return c.app.Run(cmd.Context(), app.RunOptions{
				ConfigPath: configPath(cmd),
				DryRun:     dryRun,
				Output:     output,
				Skip:       skip,
			})
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Print the commands that would run without executing them")
	cmd.Flags().StringP("output", "o", report.FormatText, "Summary format ("+strings.Join(report.Formats, "|")+")")
	cmd.Flags().StringSliceP("skip", "s", nil, "Task to leave out of this run (repeatable)")
	return cmd
}
