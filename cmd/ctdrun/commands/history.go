package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		limit     int
		pruneDays int
	)

	cmd := &cobra.Command{
		Use:   "history [script]",
		Short: "Show recorded validation verdicts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			store, err := openHistory(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if pruneDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -pruneDays)
				n, err := store.PruneBefore(cmd.Context(), cutoff)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs older than %s.\n", n, cutoff.Format("2006-01-02"))
				return nil
			}

			script := ""
			if len(args) == 1 {
				if script, err = filepath.Abs(args[0]); err != nil {
					return err
				}
			}

			runs, err := store.ListRuns(cmd.Context(), script, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded. Run 'ctdrun validate <script> <input>...' to get started.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tVERDICT\tSTATUS\tRAW\tRUNTIME\tINPUT")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"), run.Verdict(),
					run.Status, run.RawStatus, run.Runtime.Round(time.Millisecond), run.Input)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show (0 = all)")
	cmd.Flags().IntVar(&pruneDays, "prune-days", 0, "delete runs older than this many days instead of listing")

	return cmd
}
