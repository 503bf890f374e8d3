package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecairns22/ctdrun/internal/validation"
)

func validateCmd() *cobra.Command {
	var (
		timeLimit time.Duration
		extraArgs []string
		outputDir string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "validate <script> <input>...",
		Short: "Validate input files with a Checktestdata script",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd, !noHistory)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.Validate(cmd.Context(), validation.Request{
				Script:    args[0],
				Inputs:    args[1:],
				Args:      extraArgs,
				TimeLimit: timeLimit,
				OutputDir: outputDir,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERDICT\tINPUT\tSTATUS\tRUNTIME")
			for _, res := range report.Results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					validation.Verdict(res.Outcome), res.Input, res.Outcome.Status,
					res.Outcome.Runtime.Round(time.Millisecond))
			}
			w.Flush()

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d accepted, %d rejected\n", report.Accepted, report.Rejected)
			if !report.AllAccepted() {
				return fmt.Errorf("%d of %d inputs rejected by %s", report.Rejected, len(report.Results), report.Script)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "per-input time limit (default from config)")
	cmd.Flags().StringArrayVar(&extraArgs, "arg", nil, "extra argument passed to checktestdata (repeatable)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "keep checktestdata stdout/stderr per input in this directory")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record verdicts in the history database")

	return cmd
}
