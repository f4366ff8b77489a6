package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/config"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "k30",
	Short: "Exam problem decoder",
	Long: "k30 turns an exam problem (typed text, a photo or a document) into a numbered " +
		"sequence of multiple-choice steps with a solution summary.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides K30_DB env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: production or development")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DB = v
	}
	if v, _ := cmd.Flags().GetString("log-mode"); v != "" {
		cfg.LogMode = v
	}
	if cmd.Flags().Lookup("addr") != nil {
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Addr = v
		}
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or K30_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	path, _ := cmd.Flags().GetString("config")
	if cfg, err := config.Load(path); err == nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
