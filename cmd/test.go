package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/llmops/llmcheck/internal/export"
	"github.com/llmops/llmcheck/internal/probe"
	"github.com/llmops/llmcheck/internal/report"
)

var (
	testTimeout time.Duration
	testWorkers int
	testAll     bool
	testFormat  string
	testDest    string
)

var testCmd = &cobra.Command{
	Use:   "test [provider] [model...]",
	Short: "Run connectivity tests against a provider's models",
	Long: `Run one concurrent connectivity test per selected model and print a
consolidated report. Individual failures (timeouts, auth errors, bad
responses) are reported per model and never abort the batch.

Examples:
  llmcheck test openai gpt-4o gpt-4o-mini
  llmcheck test azure-prod --all --timeout 10s
  llmcheck test openai gpt-4o --export file --format csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, registry, exporter, err := loadApp()
		if err != nil {
			return err
		}

		profile, err := registry.Get(args[0])
		if err != nil {
			return err
		}

		modelIDs := args[1:]
		if testAll {
			modelIDs = allModelIDs(profile.Models, profile.ModelMappings)
		}
		if len(modelIDs) == 0 {
			return fmt.Errorf("no models selected: pass model ids or use --all")
		}

		timeout := testTimeout
		if timeout <= 0 {
			timeout = cfg.RequestTimeout
		}

		workers := testWorkers
		if !cmd.Flags().Changed("workers") {
			workers = cfg.Workers
		}

		// Ctrl-C aborts the batch; unsettled calls are reported as cancelled.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		runner := probe.NewRunner(Logger, nil)

		fmt.Printf("Testing %d models against %q...\n", len(modelIDs), profile.Name)

		result, err := runner.Run(ctx, profile, modelIDs, probe.Options{
			Timeout: timeout,
			Workers: workers,
			OnSettle: func(o probe.Outcome) {
				fmt.Printf("  %s settled: %s\n", o.ModelID, o.Status)
			},
		})
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}

		report.NewPrinter().Print(os.Stdout, result)

		if testDest == "" {
			return nil
		}

		return exportReport(exporter, result)
	},
}

func exportReport(exporter *export.Exporter, result *probe.Report) error {
	format, err := export.ParseFormat(testFormat)
	if err != nil {
		return err
	}

	dest, err := export.ParseDestination(testDest)
	if err != nil {
		return err
	}

	path, err := exporter.Report(result, format, dest)
	if err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}

	if path != "" {
		fmt.Printf("\nReport saved to: %s\n", path)
	} else {
		fmt.Println("\nReport copied to clipboard.")
	}

	return nil
}

// allModelIDs merges the supported model list with mapping keys, models
// first, skipping duplicates.
func allModelIDs(models []string, mappings map[string]string) []string {
	seen := make(map[string]struct{}, len(models)+len(mappings))
	out := make([]string, 0, len(models)+len(mappings))

	for _, m := range models {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}

	mapped := make([]string, 0, len(mappings))
	for name := range mappings {
		mapped = append(mapped, name)
	}
	sort.Strings(mapped)

	for _, name := range mapped {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}

func init() {
	testCmd.Flags().DurationVar(&testTimeout, "timeout", 0, "Per-call timeout (default from config)")
	testCmd.Flags().IntVar(&testWorkers, "workers", 0, "Max concurrent calls, 0 for unbounded (default from config)")
	testCmd.Flags().BoolVar(&testAll, "all", false, "Test every configured model and mapping")
	testCmd.Flags().StringVar(&testFormat, "format", "text", "Export format: text, json or csv")
	testCmd.Flags().StringVar(&testDest, "export", "", "Export destination: file or clipboard")
	rootCmd.AddCommand(testCmd)
}
