// Package cmd contains CLI command definitions
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmops/llmcheck/internal/config"
	"github.com/llmops/llmcheck/internal/export"
	"github.com/llmops/llmcheck/internal/probe"
	"github.com/llmops/llmcheck/internal/provider"
	"github.com/llmops/llmcheck/internal/report"
	"github.com/llmops/llmcheck/pkg/interactive"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive mode",
	Long:  `Launches the interactive menu for provider management, model testing and exports.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive drives the top-level menu loop until the user exits.
func RunInteractive() {
	fmt.Println("llmcheck - Interactive Mode")
	fmt.Println("===========================")
	fmt.Println()

	cfg, registry, exporter, err := loadApp()
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	for {
		options := []interactive.MenuOption{
			{
				Name:        "Manage Providers",
				Description: "Add, edit, delete and inspect provider profiles",
				Action: func() error {
					return manageProvidersMenu(registry)
				},
			},
			{
				Name:        "Test Models",
				Description: "Run concurrent connectivity tests against a provider's models",
				Action: func() error {
					testModelsFlow(cfg, registry, exporter)
					return nil
				},
			},
			{
				Name:        "Export Data",
				Description: "Export mappings, model lists, keys or full configs",
				Action: func() error {
					return exportDataMenu(registry, exporter)
				},
			},
			{
				Name:        "Query Model",
				Description: "Find which providers serve a given model name",
				Action: func() error {
					queryModelFlow(registry)
					return nil
				},
			},
			{
				Name:        "Show Config",
				Description: "Display current environment configuration",
				Action: func() error {
					fmt.Println()
					fmt.Println(cfg.String())
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func manageProvidersMenu(registry provider.Registry) error {
	for {
		options := []interactive.MenuOption{
			{Name: "Add provider", Action: func() error { addProviderFlow(registry); return nil }},
			{Name: "Edit provider", Action: func() error { editProviderFlow(registry); return nil }},
			{Name: "Delete provider", Action: func() error { deleteProviderFlow(registry); return nil }},
			{Name: "List providers", Action: func() error { listProvidersFlow(registry); return nil }},
			{Name: "View provider details", Action: func() error { viewProviderFlow(registry); return nil }},
		}

		if err := interactive.ShowMenu("Manage provider profiles:", "Back", options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				return nil
			}
			return err
		}

		fmt.Println()
	}
}

func addProviderFlow(registry provider.Registry) {
	name, err := interactive.Input("Provider name:", true)
	if err != nil || name == "" {
		return
	}

	if _, err := registry.Get(name); err == nil {
		fmt.Printf("❌ Provider %q already exists\n", name)
		return
	}

	typeChoices := make([]string, 0, len(provider.APITypes()))
	for _, t := range provider.APITypes() {
		typeChoices = append(typeChoices, string(t))
	}

	apiTypeStr, err := interactive.SelectString("API type:", typeChoices)
	if err != nil {
		return
	}
	apiType, _ := provider.ParseAPIType(apiTypeStr)

	baseURL, err := interactive.Input("Base URL (empty for the provider default):", false)
	if err != nil {
		return
	}

	key, err := interactive.Password("API key:")
	if err != nil {
		return
	}

	keys := []string{key}
	for {
		extra, err := interactive.Input("Additional API key (empty to finish):", false)
		if err != nil || extra == "" {
			break
		}
		keys = append(keys, extra)
	}

	p := &provider.Profile{
		Name:    name,
		APIType: apiType,
		BaseURL: strings.TrimSpace(baseURL),
		APIKeys: keys,
	}

	collectModels(p)
	collectMappings(p)
	collectHeaders(p)

	if err := registry.Add(p); err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	fmt.Printf("✅ Provider %q added\n", name)
}

func collectModels(p *provider.Profile) {
	fmt.Println("\nSupported models (empty to finish):")
	for {
		model, err := interactive.Input("Model id:", false)
		if err != nil || model == "" {
			return
		}
		p.Models = append(p.Models, model)
	}
}

func collectMappings(p *provider.Profile) {
	fmt.Println("\nModel mappings, friendly name to provider-specific id (empty to finish):")
	for {
		friendly, err := interactive.Input("Friendly name:", false)
		if err != nil || friendly == "" {
			return
		}

		actual, err := interactive.Input(fmt.Sprintf("Actual model id for %q:", friendly), true)
		if err != nil || actual == "" {
			continue
		}

		if p.ModelMappings == nil {
			p.ModelMappings = make(map[string]string)
		}
		p.ModelMappings[friendly] = actual
	}
}

func collectHeaders(p *provider.Profile) {
	fmt.Println("\nCustom request headers (empty to finish):")
	for {
		header, err := interactive.Input("Header name:", false)
		if err != nil || header == "" {
			return
		}

		value, err := interactive.Input(fmt.Sprintf("Value for %q:", header), true)
		if err != nil || value == "" {
			continue
		}

		if p.Headers == nil {
			p.Headers = make(map[string]string)
		}
		p.Headers[header] = value
	}
}

func editProviderFlow(registry provider.Registry) {
	name, ok := pickProvider(registry, "Select a provider to edit:")
	if !ok {
		return
	}

	existing, err := registry.Get(name)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	// Work on a copy so a cancelled edit leaves the store untouched.
	edited := *existing

	baseURL, err := interactive.InputWithDefault("Base URL:", existing.BaseURL)
	if err != nil {
		return
	}
	edited.BaseURL = strings.TrimSpace(baseURL)

	if interactive.Confirm("Replace the API keys?") {
		key, err := interactive.Password("API key:")
		if err != nil {
			return
		}

		keys := []string{key}
		for {
			extra, inputErr := interactive.Input("Additional API key (empty to finish):", false)
			if inputErr != nil || extra == "" {
				break
			}
			keys = append(keys, extra)
		}
		edited.APIKeys = keys
	}

	if interactive.Confirm("Replace the supported model list?") {
		edited.Models = nil
		collectModels(&edited)
	}

	if interactive.Confirm("Replace the model mappings?") {
		edited.ModelMappings = nil
		collectMappings(&edited)
	}

	if interactive.Confirm("Replace the custom headers?") {
		edited.Headers = nil
		collectHeaders(&edited)
	}

	if err := registry.Update(name, &edited); err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	fmt.Printf("✅ Provider %q updated\n", name)
}

func deleteProviderFlow(registry provider.Registry) {
	name, ok := pickProvider(registry, "Select a provider to delete:")
	if !ok {
		return
	}

	if !interactive.Confirm(fmt.Sprintf("⚠️  Delete provider %q? This cannot be undone!", name)) {
		fmt.Println("Delete canceled.")
		return
	}

	if err := registry.Delete(name); err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	fmt.Printf("✅ Provider %q deleted\n", name)
}

func listProvidersFlow(registry provider.Registry) {
	profiles := registry.List()
	if len(profiles) == 0 {
		fmt.Println("No providers configured.")
		return
	}

	fmt.Println("\nConfigured providers:")
	for i, p := range profiles {
		fmt.Printf("%d. %s (%s)\n", i+1, p.Name, p.APIType)
	}
	interactive.PauseForEnter()
}

func viewProviderFlow(registry provider.Registry) {
	name, ok := pickProvider(registry, "Select a provider to view:")
	if !ok {
		return
	}

	p, err := registry.Get(name)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	fmt.Println()
	printProfile(p)
	interactive.PauseForEnter()
}

func printProfile(p *provider.Profile) {
	fmt.Printf("Name:      %s\n", p.Name)
	fmt.Printf("API type:  %s\n", p.APIType)
	fmt.Printf("Base URL:  %s\n", p.Endpoint())
	fmt.Printf("API keys:  %s\n", strings.Join(p.MaskedKeys(), ", "))

	if len(p.Models) > 0 {
		fmt.Printf("Models (%d):\n", len(p.Models))
		for _, m := range p.Models {
			fmt.Printf("  %s\n", m)
		}
	}

	if len(p.ModelMappings) > 0 {
		fmt.Printf("Mappings (%d):\n", len(p.ModelMappings))
		for name, actual := range p.ModelMappings {
			fmt.Printf("  %s -> %s\n", name, actual)
		}
	}

	if len(p.Headers) > 0 {
		fmt.Printf("Headers (%d):\n", len(p.Headers))
		for name, value := range p.Headers {
			fmt.Printf("  %s: %s\n", name, value)
		}
	}
}

func testModelsFlow(cfg *config.Config, registry provider.Registry, exporter *export.Exporter) {
	name, ok := pickProvider(registry, "Select a provider to test:")
	if !ok {
		return
	}

	profile, err := registry.Get(name)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	candidates := allModelIDs(profile.Models, profile.ModelMappings)

	// A profile without a configured model list can still be probed by
	// asking the provider what it serves.
	if len(candidates) == 0 {
		fmt.Printf("Fetching model list from %q...\n", profile.Name)

		models, err := probe.ListModels(context.Background(), nil, profile)
		if err != nil {
			fmt.Printf("❌ Error: %v\n", err)
			interactive.PauseForEnter()
			return
		}
		candidates = models
	}

	if len(candidates) == 0 {
		fmt.Println("No models available for this provider.")
		interactive.PauseForEnter()
		return
	}

	var selected []string
	if interactive.Confirm(fmt.Sprintf("Test all %d models?", len(candidates))) {
		selected = candidates
	} else {
		selected, err = interactive.MultiSelect("Select models to test:", candidates)
		if err != nil || len(selected) == 0 {
			fmt.Println("No models selected.")
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := probe.NewRunner(Logger, nil)

	fmt.Printf("\nTesting %d models (Ctrl-C to abort)...\n", len(selected))

	settled := 0
	result, err := runner.Run(ctx, profile, selected, probe.Options{
		Timeout: cfg.RequestTimeout,
		Workers: cfg.Workers,
		OnSettle: func(o probe.Outcome) {
			settled++
			fmt.Printf("  [%d/%d] %s: %s\n", settled, len(selected), o.ModelID, o.Status)
		},
	})
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		interactive.PauseForEnter()
		return
	}

	report.NewPrinter().Print(os.Stdout, result)

	if interactive.Confirm("Export this report?") {
		exportReportFlow(exporter, result)
	}

	interactive.PauseForEnter()
}

func exportReportFlow(exporter *export.Exporter, result *probe.Report) {
	formatStr, err := interactive.SelectString("Export format:", []string{
		string(export.FormatText), string(export.FormatJSON), string(export.FormatCSV),
	})
	if err != nil {
		return
	}
	format, _ := export.ParseFormat(formatStr)

	dest, ok := pickDestination()
	if !ok {
		return
	}

	path, err := exporter.Report(result, format, dest)
	reportExportResult(path, err)
}

func exportDataMenu(registry provider.Registry, exporter *export.Exporter) error {
	for {
		options := []interactive.MenuOption{
			{
				Name: "Export a provider's model mappings",
				Action: func() error {
					name, ok := pickProvider(registry, "Select a provider:")
					if !ok {
						return nil
					}
					dest, ok := pickDestination()
					if !ok {
						return nil
					}
					path, err := exporter.ModelMappings(name, dest)
					reportExportResult(path, err)
					return nil
				},
			},
			{
				Name: "Export a provider's model list",
				Action: func() error {
					name, ok := pickProvider(registry, "Select a provider:")
					if !ok {
						return nil
					}
					mapped := interactive.Confirm("Export mapping keys (friendly names) instead of raw ids?")
					dest, ok := pickDestination()
					if !ok {
						return nil
					}
					path, err := exporter.Models(name, mapped, dest)
					reportExportResult(path, err)
					return nil
				},
			},
			{
				Name: "Export all API keys and base URLs",
				Action: func() error {
					dest, ok := pickDestination()
					if !ok {
						return nil
					}
					path, err := exporter.APIKeysAndURLs(dest)
					reportExportResult(path, err)
					return nil
				},
			},
			{
				Name: "Export all provider configs",
				Action: func() error {
					dest, ok := pickDestination()
					if !ok {
						return nil
					}
					path, err := exporter.AllConfigs(dest)
					reportExportResult(path, err)
					return nil
				},
			},
		}

		if err := interactive.ShowMenu("Export configuration data:", "Back", options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				return nil
			}
			return err
		}

		fmt.Println()
	}
}

func queryModelFlow(registry provider.Registry) {
	model, err := interactive.Input("Model name to look up:", true)
	if err != nil || model == "" {
		return
	}

	matches := registry.FindByModel(model)
	if len(matches) == 0 {
		fmt.Printf("No provider serves model %q.\n", model)
		interactive.PauseForEnter()
		return
	}

	fmt.Printf("\nProviders serving %q:\n", model)
	for _, m := range matches {
		fmt.Printf("  %s: %s (sends model id %q)\n", m.Provider, m.BaseURL, m.ActualModel)
	}
	interactive.PauseForEnter()
}

func pickProvider(registry provider.Registry, message string) (string, bool) {
	names := registry.Names()
	if len(names) == 0 {
		fmt.Println("No providers configured. Add one first.")
		return "", false
	}

	const back = "(back)"
	name, err := interactive.SelectString(message, append(names, back))
	if err != nil || name == back {
		return "", false
	}

	return name, true
}

func pickDestination() (export.Destination, bool) {
	destStr, err := interactive.SelectString("Export destination:", []string{
		string(export.DestFile), string(export.DestClipboard),
	})
	if err != nil {
		return "", false
	}

	dest, err := export.ParseDestination(destStr)
	if err != nil {
		return "", false
	}

	return dest, true
}

func reportExportResult(path string, err error) {
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return
	}

	if path != "" {
		fmt.Printf("✅ Exported to: %s\n", path)
	} else {
		fmt.Println("✅ Copied to clipboard.")
	}
}
