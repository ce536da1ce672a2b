// Package commands implements the CLI commands for the kiln asset pipeline.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/build"
	"go.trai.ch/kiln/internal/core/domain"
)

// CLI represents the command line interface for kiln.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "kiln [task]",
		Short: "A front-end asset pipeline",
		Long: "kiln builds HTML, stylesheets, scripts, images and static files from src into " +
			"dist, or into prod when NODE_ENV=production.\n\nWithout a task it cleans, builds, " +
			"serves the output with live reload and watches the sources.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), domain.TaskDefault)
		},
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd

	for _, t := range taskCommands {
		rootCmd.AddCommand(c.newTaskCmd(t))
	}
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
