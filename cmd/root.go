package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/EthanGF7/SkillsTracker/internal/app"
	"github.com/EthanGF7/SkillsTracker/internal/config"
	"github.com/EthanGF7/SkillsTracker/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "skillstracker",
	Short:         "AI-generated soft-skill challenges",
	Long:          "SkillsTracker generates daily and weekly practice challenges for soft skills and keeps a history of them.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the TOML config file (default $XDG_CONFIG_HOME/skillstracker/config.toml)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default ./.env)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for challenge history and custom skills (overrides SKILLSTRACKER_DATA_DIR)")
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite LLM event log (overrides SKILLSTRACKER_DB)")
	rootCmd.PersistentFlags().String("model", "", "Model override for the configured LLM provider")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the configuration and applies the persistent flags,
// which take precedence over every other source.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")

	cfg, err := config.Load(config.Options{ConfigPath: path, EnvFile: envFile})
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.SetModel(model)
	}
	return cfg, nil
}

// resolveDBPath returns the event log path: --db first, then
// SKILLSTRACKER_DB, then the file inside the data directory.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if os.Getenv("SKILLSTRACKER_DB") != "" || cfg.DataDir == config.DefaultDataDir() {
		return store.DefaultDBPath()
	}
	p := filepath.Join(cfg.DataDir, "skillstracker.db")
	return p, store.EnsureDir(p)
}

// openApp loads the configuration and wires the services. The caller must
// Close the returned App.
func openApp(cmd *cobra.Command, reg *prometheus.Registry) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	return app.Open(cmd.Context(), cfg, app.Options{
		DBPath:   dbPath,
		Registry: reg,
		Stderr:   cmd.ErrOrStderr(),
	})
}

// openStore opens only the event log, for commands that never call the LLM.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
