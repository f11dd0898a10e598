package cmd

import (
	"fmt"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/logger"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset practice progress",
	Long:  "Reset progress for one exercise kind, or for all kinds. The attempt history is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		kindID, _ := cmd.Flags().GetString("kind")
		all, _ := cmd.Flags().GetBool("all")

		if kindID == "" && !all {
			return fmt.Errorf("pass --kind <id> or --all")
		}
		if kindID != "" {
			reg, err := exercise.Builtin()
			if err != nil {
				return err
			}
			if _, ok := reg.Get(kindID); !ok {
				return fmt.Errorf("unknown exercise kind %q", kindID)
			}
		}

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

		if kindID != "" {
			if err := tracker.Reset(ctx, kindID); err != nil {
				return fmt.Errorf("reset %s: %w", kindID, err)
			}
			fmt.Printf("Progress for %s reset.\n", kindID)
			return nil
		}
		if err := tracker.ResetAll(ctx); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Println("All progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("kind", "k", "", "Exercise kind to reset")
	resetCmd.Flags().Bool("all", false, "Reset every exercise kind")
}
