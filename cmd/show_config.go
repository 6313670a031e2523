package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmops/llmcheck/internal/config"
)

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current environment configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Println(cfg.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
}
