package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/fixture"
	"github.com/spf13/cobra"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Browse exercise kinds and records",
}

var exercisesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercise kinds, or the records of one kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		kindID, _ := cmd.Flags().GetString("kind")
		section, _ := cmd.Flags().GetString("section")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		reg, err := exercise.Builtin()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(reg, cfg.FixturesDir)
		if cat == nil {
			return err
		}

		if kindID != "" {
			kind, ok := reg.Get(kindID)
			if !ok {
				return fmt.Errorf("unknown exercise kind %q", kindID)
			}
			return listRecords(kind, cat)
		}

		kinds := reg.All()
		if section != "" {
			kinds = reg.BySection(exercise.Section(section))
			if len(kinds) == 0 {
				return fmt.Errorf("no exercise kinds in section %q", section)
			}
		}

		fmt.Printf("%-38s  %-14s  %-8s  %s\n", "ID", "Format", "Records", "Timing")
		fmt.Println(strings.Repeat("─", 80))
		for _, k := range kinds {
			fmt.Printf("%-38s  %-14s  %-8d  %s\n", k.ID, k.Format, cat.Count(k.ID), timing(k))
		}
		fmt.Printf("\n%d kinds\n", len(kinds))
		return nil
	},
}

func listRecords(kind exercise.Kind, cat *fixture.Catalog) error {
	recs := cat.Records(kind.ID)
	fmt.Printf("%s (%s)\n", kind.Title, kind.ID)
	fmt.Println(strings.Repeat("─", 60))
	if len(recs) == 0 {
		fmt.Println("No records loaded.")
		return nil
	}
	for _, r := range recs {
		title := r.Title
		if title == "" {
			title = truncate(r.Prompt, 50)
		}
		fmt.Printf("%4d  %s\n", r.ID, title)
	}
	return nil
}

// timing describes the stage budgets of a kind, e.g. "countdown 3s, answer 90s".
func timing(k exercise.Kind) string {
	var parts []string
	if k.HasStage(exercise.StagePreparation) && k.PreparationSeconds > 0 {
		parts = append(parts, fmt.Sprintf("prep %ds", k.PreparationSeconds))
	}
	if k.HasStage(exercise.StageCountdown) && k.CountdownSeconds > 0 {
		parts = append(parts, fmt.Sprintf("countdown %ds", k.CountdownSeconds))
	}
	if k.ResponseSeconds > 0 {
		parts = append(parts, fmt.Sprintf("%s %ds", k.ResponseLabel(), k.ResponseSeconds))
	} else {
		parts = append(parts, k.ResponseLabel()+" untimed")
	}
	return strings.Join(parts, ", ")
}

func init() {
	exercisesListCmd.Flags().StringP("kind", "k", "", "List the records of one kind")
	exercisesListCmd.Flags().StringP("section", "s", "", "Filter by section (listening, reading, speaking, writing)")

	exercisesCmd.AddCommand(exercisesListCmd)
}
