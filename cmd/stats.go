package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics per exercise kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		tracker, closer, err := newTracker(ctx, cfg.Progress, st, logger.Nop())
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		records, err := tracker.All(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		attempts, err := st.EventRepo().AttemptStatsByKind(ctx)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(records) == 0 && len(attempts) == 0 {
			fmt.Println("No practice recorded yet.")
			return nil
		}

		byKind := make(map[string]store.KindStats, len(attempts))
		for _, a := range attempts {
			byKind[a.KindID] = a
		}

		reg, err := exercise.Builtin()
		if err != nil {
			return err
		}

		fmt.Printf("%-38s  %5s  %6s  %8s  %6s  %4s  %s\n",
			"Kind", "Done", "Scored", "Accuracy", "Streak", "Best", "Last")
		fmt.Println(strings.Repeat("─", 96))

		for _, k := range reg.All() {
			rec, ok := records[k.ID]
			att, seen := byKind[k.ID]
			if !ok && !seen {
				continue
			}
			last := "-"
			if !rec.UpdatedAt.IsZero() {
				last = rec.UpdatedAt.Local().Format("2006-01-02 15:04")
			} else if seen {
				last = att.LastAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Printf("%-38s  %5d  %6d  %7.0f%%  %6d  %4d  %s\n",
				k.ID, rec.Completed, rec.Scored, rec.Accuracy*100, rec.Streak, rec.BestStreak, last)
		}

		var total, scored int
		var weighted float64
		for _, a := range attempts {
			total += a.Attempts
			scored += a.Scored
			weighted += a.AvgPercent * float64(a.Scored)
		}
		fmt.Println(strings.Repeat("─", 96))
		if scored > 0 {
			fmt.Printf("%d attempts logged, %d scored, average %.0f%%\n", total, scored, weighted/float64(scored))
		} else {
			fmt.Printf("%d attempts logged, none scored\n", total)
		}
		return nil
	},
}
