package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/core/domain"
)

type taskCommand struct {
	name  string
	short string
}

var taskCommands = []taskCommand{
	{domain.TaskClean, "Remove the development and production output"},
	{string(domain.GroupMarkup), "Expand includes in the HTML pages"},
	{string(domain.GroupStyles), "Bundle, prefix and pack the stylesheets"},
	{string(domain.GroupScripts), "Concatenate the scripts"},
	{string(domain.GroupImages), "Copy changed images and build the SVG sprite"},
	{string(domain.GroupMisc), "Copy changed top-level files"},
	{domain.TaskBuild, "Run every asset group concurrently"},
	{domain.TaskCleanBuild, "Clean, then build"},
	{domain.TaskWatch, "Rebuild asset groups when their sources change"},
	{domain.TaskServe, "Serve the output with live reload"},
	{domain.TaskDefault, "Clean, build, then serve and watch"},
}

func (c *CLI) newTaskCmd(t taskCommand) *cobra.Command {
	return &cobra.Command{
		Use:   t.name,
		Short: t.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), t.name)
		},
	}
}
