package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ecairns22/ctdrun/internal/validation"
)

func runCmd() *cobra.Command {
	var (
		timeLimit time.Duration
		extraArgs []string
	)

	cmd := &cobra.Command{
		Use:   "run <script> <input>",
		Short: "Validate one input and exit with the verdict code (42 = accepted)",
		Long: "Run validates a single input and exits with the translated interpreter status: " +
			"42 when the input is accepted, the interpreter's own code otherwise, " +
			"and 128+N when it was killed by signal N.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd, true)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := svc.Validate(cmd.Context(), validation.Request{
				Script:    args[0],
				Inputs:    args[1:],
				Args:      extraArgs,
				TimeLimit: timeLimit,
			})
			if err != nil {
				return err
			}

			status := report.Results[0].Outcome.Status
			code := status.ExitCode()
			if !status.Exited() {
				code = 128 + int(status.Signal())
			}
			if code == 0 {
				return nil
			}
			return &ExitError{Code: code}
		},
	}

	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "time limit (default from config)")
	cmd.Flags().StringArrayVar(&extraArgs, "arg", nil, "extra argument passed to checktestdata (repeatable)")

	return cmd
}
