package cmd

import "github.com/spf13/cobra"

// playCmd is the explicit spelling of the bare `langdrill` invocation.
var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"tui"},
	Short:   "Open the interactive practice app",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd)
	},
}
