package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyPrune time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently applied themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(false)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, closeState, err := e.openService()
		if err != nil {
			return err
		}
		defer closeState()

		out := cmd.OutOrStdout()
		if historyPrune > 0 {
			n, err := svc.PruneHistory(cmd.Context(), time.Now().Add(-historyPrune))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pruned %d entries\n", n)
		}

		entries, err := svc.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "no themes applied yet")
			return nil
		}
		for _, h := range entries {
			fmt.Fprintf(out, "%s  %-10s %-20s %s\n", h.AppliedAt.Format("2006-01-02 15:04:05"), h.Kind, h.ThemeID, h.Source)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this duration first (e.g. 720h)")
	rootCmd.AddCommand(historyCmd)
}
