package cli

import "github.com/spf13/cobra"

// globalFlags holds the process-wide flags shared by every subcommand.
type globalFlags struct {
	Verbose bool
}

var global globalFlags

// AddGlobalFlags registers flags available on every subcommand.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "print per-stage progress to stderr")
}
