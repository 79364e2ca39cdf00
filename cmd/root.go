package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonforge/internal/config"
	"github.com/abhisek/lessonforge/internal/llm"
	"github.com/abhisek/lessonforge/internal/logger"
	"github.com/abhisek/lessonforge/internal/pipeline"
	"github.com/abhisek/lessonforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lessonforge",
	Short: "Generate language lessons from source texts",
	Long: "lessonforge turns an article or any source text into a CEFR-levelled " +
		"language lesson, one validated section at a time.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LESSONFORGE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides LESSONFORGE_CONFIG env var)")
	rootCmd.PersistentFlags().String("env", ".env", "Path to .env file")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev, prod or quiet")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration from the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env")
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(envFile, path)
	if err != nil {
		return config.Config{}, err
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.LogMode = m
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then LESSONFORGE_DB and the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the database for commands that only read history.
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

// deps holds the dependencies shared by generating commands.
type deps struct {
	cfg    config.Config
	log    *logger.Logger
	store  *store.Store
	client *llm.Client
}

// setup loads config, opens the store and connects the configured model.
func setup(ctx context.Context, cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	client, err := llm.NewClientFromConfig(ctx, cfg.LLM, st.EventRepo(), log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	return &deps{cfg: cfg, log: log, store: st, client: client}, nil
}

// pipeline builds a lesson service that records every run.
func (r *deps) pipeline(opts ...pipeline.Option) *pipeline.Service {
	opts = append([]pipeline.Option{
		pipeline.WithLogger(r.log),
		pipeline.WithRecorder(pipeline.NewStoreRecorder(r.store.RunRepo())),
	}, opts...)
	return pipeline.NewService(r.client, r.cfg.Pipeline(), opts...)
}

func (r *deps) Close() {
	r.log.Sync()
	r.store.Close()
}
