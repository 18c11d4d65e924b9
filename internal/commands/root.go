package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/balans-dev/ledgermerge/internal/buildinfo"
	"github.com/balans-dev/ledgermerge/internal/config"
	"github.com/balans-dev/ledgermerge/internal/logger"
)

// Environment variables supplying flag defaults. A .env file in the working
// directory is loaded before the command line is parsed.
const (
	EnvConfig   = "LEDGERMERGE_CONFIG"
	EnvLogLevel = "LEDGERMERGE_LOG_LEVEL"
)

// app is the per-invocation state shared by subcommands.
type app struct {
	configPath string
	logLevel   string

	runID string
	log   zerolog.Logger
}

// config loads the layout config, or the defaults when no path is set.
func (a *app) config() (*config.Config, error) {
	if a.configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func (a *app) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx, a.log)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "ledgermerge",
		Short:   "Merge ledger exports into one reconciled workbook and report",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.runID = uuid.NewString()
			a.log = logger.New(a.logLevel).With().Str("run", a.runID).Logger()
			cmd.SetContext(a.context(cmd.Context()))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv(EnvConfig), "layout config file (env "+EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", envOr(EnvLogLevel, "info"), "log level: debug, info, warn, error (env "+EnvLogLevel+")")

	rootCmd.AddCommand(newMergeCommand(a))
	rootCmd.AddCommand(newViewCommand(a))
	rootCmd.AddCommand(newInitConfigCommand())

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
