package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/langdrill/internal/exercise"
	"github.com/abhisek/langdrill/internal/fixture"
	"github.com/spf13/cobra"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Work with fixture files",
}

var fixturesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse fixtures and report malformed records",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			dir = cfg.FixturesDir
		}

		reg, err := exercise.Builtin()
		if err != nil {
			return err
		}
		cat, err := loadCatalog(reg, dir)
		if cat == nil {
			return err
		}

		source := dir
		if source == "" {
			source = "built-in samples"
		}
		total := 0
		for _, k := range reg.All() {
			total += cat.Count(k.ID)
		}

		perrs := fixture.ParseErrors(err)
		fmt.Printf("%s: %d records loaded, %d rejected\n", source, total, len(perrs))
		for _, pe := range perrs {
			fmt.Fprintln(os.Stderr, "  "+pe.Error())
		}
		if err != nil {
			if len(perrs) == 0 {
				return err
			}
			return fmt.Errorf("%d malformed records", len(perrs))
		}
		return nil
	},
}

func init() {
	fixturesCheckCmd.Flags().String("dir", "", "Fixture directory to check (default: configured or built-in)")

	fixturesCmd.AddCommand(fixturesCheckCmd)
}
