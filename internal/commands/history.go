package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/history"
)

func newHistoryCommand(e *env) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently converted statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := e.openHistory(true)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer closeStore()

			var entries []history.Entry
			if runID != "" {
				entries, err = store.Run(cmd.Context(), runID)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tRUN\tFILE\tBANK\tSTATUS\tCOUNT\tDEBIT\tCREDIT\tNOTE")
			for _, en := range entries {
				note := en.Reason
				if en.SummaryMismatch {
					note = "summary mismatch"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
					en.RecordedAt.Format("2006-01-02 15:04"), en.RunID, en.SourceFile, en.Bank,
					en.Status, en.Transactions, en.TotalDebit.StringFixed(2), en.TotalCredit.StringFixed(2), note)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of documents to show")
	cmd.Flags().StringVar(&runID, "run", "", "show the documents of one run")

	return cmd
}

