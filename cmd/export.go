package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmops/llmcheck/internal/export"
)

var (
	exportClipboard bool
	exportMapped    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export provider configuration data",
}

var exportMappingsCmd = &cobra.Command{
	Use:   "mappings [provider]",
	Short: "Export a provider's model mappings as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, _, exporter, err := loadApp()
		if err != nil {
			return err
		}

		path, err := exporter.ModelMappings(args[0], exportDest())
		return announce(path, err)
	},
}

var exportModelsCmd = &cobra.Command{
	Use:   "models [provider]",
	Short: "Export a provider's model list as comma-separated text",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, _, exporter, err := loadApp()
		if err != nil {
			return err
		}

		path, err := exporter.Models(args[0], exportMapped, exportDest())
		return announce(path, err)
	},
}

var exportKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Export every provider's API keys and base URLs as JSON",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, _, exporter, err := loadApp()
		if err != nil {
			return err
		}

		path, err := exporter.APIKeysAndURLs(exportDest())
		return announce(path, err)
	},
}

var exportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Export every provider's full configuration as JSON",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, _, exporter, err := loadApp()
		if err != nil {
			return err
		}

		path, err := exporter.AllConfigs(exportDest())
		return announce(path, err)
	},
}

func exportDest() export.Destination {
	if exportClipboard {
		return export.DestClipboard
	}
	return export.DestFile
}

func announce(path string, err error) error {
	if err != nil {
		return err
	}

	if path != "" {
		fmt.Printf("Exported to: %s\n", path)
	} else {
		fmt.Println("Copied to clipboard.")
	}

	return nil
}

func init() {
	exportCmd.PersistentFlags().BoolVar(&exportClipboard, "clipboard", false, "Copy to clipboard instead of writing a file")
	exportModelsCmd.Flags().BoolVar(&exportMapped, "mapped", false, "Export mapping keys (friendly names) instead of raw model ids")

	exportCmd.AddCommand(exportMappingsCmd)
	exportCmd.AddCommand(exportModelsCmd)
	exportCmd.AddCommand(exportKeysCmd)
	exportCmd.AddCommand(exportAllCmd)
	rootCmd.AddCommand(exportCmd)
}
