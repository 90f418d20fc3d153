// Package commands implements the CLI commands for tend.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/tend/internal/app"
	"go.trai.ch/tend/internal/build"
)

// CLI represents the command line interface for tend.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "tend",
		Short:         "Sequenced host maintenance with contained failures",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to tend.yaml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write console logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if enable, _ := cmd.Flags().GetBool("log-json"); enable {
			c.app.SetLogJSON(true)
		}
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newTasksCmd())
	rootCmd.AddCommand(c.newReportCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut sets the destination for command output. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
