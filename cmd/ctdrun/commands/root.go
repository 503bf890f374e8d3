package commands

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// Root returns the root cobra command with all subcommands attached.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctdrun",
		Short: "Validate test inputs with Checktestdata scripts",
		Long: "ctdrun runs Checktestdata validation scripts against test inputs, prepending " +
			"problem constraints, and reports verdicts with 42 meaning accepted.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CTDRUN_CONFIG or /etc/ctdrun/ctdrun.toml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(initCmd())
	cmd.AddCommand(validateCmd())
	cmd.AddCommand(runCmd())
	cmd.AddCommand(checkCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(fetchCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
