package cli

import (
	"fmt"
	"imagefetch/internal/config"
	"imagefetch/internal/state"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded fetch attempts",
	Long:  `List fetch attempts stored when imagefetch runs with --record, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		if err := config.EnsureDirs(); err != nil {
			return fmt.Errorf("failed to create application directories: %w", err)
		}
		state.Configure(config.GetHistoryPath())
		defer state.CloseDB()

		entries, err := state.ListFetches(limit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries)
		return nil
	},
}

func printHistory(w io.Writer, entries []state.FetchEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No fetches recorded yet.")
		return
	}

	for _, e := range entries {
		when := humanize.Time(e.CreatedAt)
		if e.Status == state.StatusCompleted {
			fmt.Fprintf(w, "✅ %s  %s  %s  %s\n", e.Filename, humanize.Bytes(uint64(e.Size)), when, e.URL)
			continue
		}
		fmt.Fprintf(w, "✗ [%s] %s  %s  %s\n", e.ErrorKind, e.URL, when, e.Error)
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries to show (0 for all)")
}
