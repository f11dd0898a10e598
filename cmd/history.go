package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/langdrill/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kindID, _ := cmd.Flags().GetString("kind")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		attempts, err := s.EventRepo().QueryAttempts(cmd.Context(), store.QueryOpts{Limit: limit, KindID: kindID})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No submissions recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-38s  %4s  %-9s  %-6s  %s\n", "Timestamp", "Kind", "ID", "Score", "Source", "Session")
		fmt.Println(strings.Repeat("─", 100))
		for _, a := range attempts {
			score := "-"
			if a.Scored {
				score = fmt.Sprintf("%.0f%%", a.Percent)
				if a.Total > 0 {
					score += fmt.Sprintf(" %d/%d", a.Correct, a.Total)
				}
			}
			source := a.Source
			if source == "" {
				source = "-"
			}
			fmt.Printf("%-19s  %-38s  %4d  %-9s  %-6s  %s\n",
				a.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(a.KindID, 38),
				a.RecordID,
				score,
				source,
				truncate(a.SessionID, 8),
			)
			if a.Notice != "" {
				fmt.Printf("%21s%s\n", "", a.Notice)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of submissions to show")
	historyCmd.Flags().StringP("kind", "k", "", "Filter by exercise kind")
}
