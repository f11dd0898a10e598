package cmd

import (
	"fmt"

	"github.com/abhisek/langdrill/internal/config"
	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "langdrill",
	Short: "Language test practice in the terminal",
	Long:  "langdrill is a terminal practice platform for listening, reading, speaking and writing exercises.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LANGDRILL_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/langdrill/config.yaml)")
	rootCmd.PersistentFlags().String("fixtures", "", "Directory of fixture files (default: built-in samples)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(exercisesCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig reads the config file named by --config, or the default one,
// and applies the --fixtures override.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if dir, _ := cmd.Flags().GetString("fixtures"); dir != "" {
		cfg.FixturesDir = dir
	}
	return cfg, nil
}

// resolveDBPath picks --db, then the db key (LANGDRILL_DB), then the data
// directory.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return store.Prepare(p)
	}
	if cfg.DBPath != "" {
		return store.Prepare(cfg.DBPath)
	}
	return store.DataPath("langdrill.db")
}

// openStore loads config and opens the database. Callers close the store.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, nil
}

// newLogger builds the process logger. TUI runs log to a file in the data
// directory unless log_file is set.
func newLogger(cfg config.Config, toFile bool) (*logger.Logger, error) {
	path := cfg.LogFile
	if path == "" && toFile {
		var err error
		if path, err = store.DataPath("langdrill.log"); err != nil {
			return nil, err
		}
	}
	return logger.New(cfg.LogMode, path)
}
