package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scriptfetch/internal/download/types"
	"scriptfetch/internal/state"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous fetches, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			if err := executeGlobalShutdown("history"); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
		}()

		initializeGlobalState(loadSettings())

		if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
			n, err := state.ClearHistory()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
			return nil
		}

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := state.LoadHistory(limit)
		if err != nil {
			return err
		}
		printHistory(cmd.OutOrStdout(), entries, time.Now())
		return nil
	},
}

func printHistory(w io.Writer, entries []types.FetchEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No fetches recorded yet.")
		return
	}
	for _, e := range entries {
		when := humanize.RelTime(time.Unix(e.CreatedAt, 0), now, "ago", "from now")
		switch e.Status {
		case types.StatusCompleted:
			fmt.Fprintf(w, "%-9s %-24s %8s  attempt %d (%s)  %s  %s\n",
				e.Status, e.Filename, humanize.Bytes(uint64(e.Bytes)), e.Attempt, e.Protocol, when, e.DestPath)
		default:
			fmt.Fprintf(w, "%-9s %-24s %8s  attempt %d (%s)  %s  %s\n",
				e.Status, e.Filename, "-", e.Attempt, e.Protocol, when, e.Error)
		}
	}
}

func init() {
	historyCmd.Flags().IntP("limit", "n", state.DefaultHistoryLimit, "Maximum number of entries to show")
	historyCmd.Flags().Bool("clear", false, "Delete all recorded fetches")
	rootCmd.AddCommand(historyCmd)
}
