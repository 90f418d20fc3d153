package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tend/internal/app"
)

func (c *CLI) newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the maintenance tasks in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			skip, _ := cmd.Flags().GetStringSlice("skip")
			return c.app.Tasks(app.ListOptions{
				ConfigPath: configPath(cmd),
				Skip:       skip,
			})
		},
	}
	cmd.Flags().StringSliceP("skip", "s", nil, "Mark a task as skipped (repeatable)")
	return cmd
}
