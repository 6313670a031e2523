package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llmops/llmcheck/internal/config"
	"github.com/llmops/llmcheck/internal/export"
	"github.com/llmops/llmcheck/internal/provider"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	rootCmd = &cobra.Command{
		Use:   "llmcheck",
		Short: "llmcheck - LLM provider profile manager and model tester",
		Long: `llmcheck manages configuration profiles for LLM API providers and runs
concurrent connectivity tests against their models.

Run without arguments to launch interactive mode, or use subcommands for direct operations.`,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// InitLogger sets up the shared logger from the LOG_LEVEL environment variable.
func InitLogger() {
	Logger = logrus.New()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // Default to info
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		// Can't use Logger here since it might not be set up yet
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	InitLogger()
}

// loadApp wires the configuration, registry and exporter shared by commands.
func loadApp() (*config.Config, provider.Registry, *export.Exporter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	registry, err := provider.NewRegistry(Logger, cfg.StorePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening provider store: %w", err)
	}

	return cfg, registry, export.NewExporter(Logger, registry, cfg.ExportDir), nil
}
