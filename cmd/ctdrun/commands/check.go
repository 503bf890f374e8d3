package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>...",
		Short: "Syntax-check Checktestdata scripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := buildService(cmd, false)
			if err != nil {
				return err
			}
			defer cleanup()

			failed := 0
			for _, script := range args {
				ok, err := svc.Check(cmd.Context(), script)
				if err != nil {
					return err
				}
				result := "OK"
				if !ok {
					result = "FAILED"
					failed++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", script, result)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed the syntax check", failed, len(args))
			}
			return nil
		},
	}
}
