package commands

import "github.com/spf13/cobra"

// Root returns the root command of c.
// This is exported for testing purposes only.
func Root(c *CLI) *cobra.Command {
	return c.rootCmd
}
