package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmops/llmcheck/internal/probe"
	"github.com/llmops/llmcheck/internal/provider"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testRegistry(t *testing.T, profiles ...*provider.Profile) provider.Registry {
	t.Helper()

	reg, err := provider.NewRegistry(testLogger(), filepath.Join(t.TempDir(), "providers.yaml"))
	require.NoError(t, err)

	for _, p := range profiles {
		require.NoError(t, reg.Add(p))
	}

	return reg
}

func sampleReport() *probe.Report {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return &probe.Report{
		ID:          "batch-1",
		Provider:    "openai",
		APIType:     provider.APITypeOpenAI,
		StartedAt:   started,
		CompletedAt: started.Add(2 * time.Second),
		Outcomes: []probe.Outcome{
			{ModelID: "gpt-4", ActualModel: "gpt-4", Status: probe.StatusSuccess, LatencyMS: 420},
			{ModelID: "gpt-9-fake", Status: probe.StatusHTTPError, Category: "not found", ErrorDetail: "HTTP 404 Not Found", Advice: "check the model id"},
		},
	}
}

func sampleProfile() *provider.Profile {
	return &provider.Profile{
		Name:          "openai",
		APIType:       provider.APITypeOpenAI,
		BaseURL:       "https://api.openai.com",
		APIKeys:       []string{"sk-test"},
		Models:        []string{"gpt-4", "gpt-4o"},
		ModelMappings: map[string]string{"friendly": "ep-1"},
	}
}

func TestExporter_ReportToFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  Format
		wantExt string
		check   func(t *testing.T, content string)
	}{
		{
			name:    "json",
			format:  FormatJSON,
			wantExt: ".json",
			check: func(t *testing.T, content string) {
				var r probe.Report
				require.NoError(t, json.Unmarshal([]byte(content), &r))
				assert.Equal(t, "openai", r.Provider)
				assert.Len(t, r.Outcomes, 2)
			},
		},
		{
			name:    "csv",
			format:  FormatCSV,
			wantExt: ".csv",
			check: func(t *testing.T, content string) {
				rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
				require.NoError(t, err)
				require.Len(t, rows, 3) // header + two outcomes
				assert.Equal(t, "model_id", rows[0][2])
				assert.Equal(t, "gpt-4", rows[1][2])
				assert.Equal(t, "http_error", rows[2][4])
			},
		},
		{
			name:    "text",
			format:  FormatText,
			wantExt: ".txt",
			check: func(t *testing.T, content string) {
				assert.Contains(t, content, "gpt-4: success (420ms)")
				assert.Contains(t, content, "gpt-9-fake: http_error")
				assert.Contains(t, content, "passed: 1, failed: 1")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			exporter := NewExporter(testLogger(), testRegistry(t), dir)

			path, err := exporter.Report(sampleReport(), tt.format, DestFile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, filepath.Ext(path))
			assert.True(t, strings.HasPrefix(filepath.Base(path), "model_test_report_"))

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.check(t, string(content))
		})
	}
}

func TestExporter_ModelMappings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := NewExporter(testLogger(), testRegistry(t, sampleProfile()), dir)

	path, err := exporter.ModelMappings("openai", DestFile)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var mappings map[string]string
	require.NoError(t, json.Unmarshal(content, &mappings))
	assert.Equal(t, map[string]string{"friendly": "ep-1"}, mappings)
}

func TestExporter_ModelMappings_EmptyIsError(t *testing.T) {
	t.Parallel()

	p := sampleProfile()
	p.ModelMappings = nil

	exporter := NewExporter(testLogger(), testRegistry(t, p), t.TempDir())

	_, err := exporter.ModelMappings("openai", DestFile)
	require.ErrorIs(t, err, ErrNothingToExport)
}

func TestExporter_Models(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(testLogger(), testRegistry(t, sampleProfile()), t.TempDir())

	t.Run("raw ids", func(t *testing.T) {
		t.Parallel()

		path, err := exporter.Models("openai", false, DestFile)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "gpt-4,gpt-4o", string(content))
	})

	t.Run("mapped names", func(t *testing.T) {
		t.Parallel()

		path, err := exporter.Models("openai", true, DestFile)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "friendly", string(content))
	})
}

func TestExporter_APIKeysAndURLs(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(testLogger(), testRegistry(t, sampleProfile()), t.TempDir())

	path, err := exporter.APIKeysAndURLs(DestFile)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var infos []keyInfo
	require.NoError(t, json.Unmarshal(content, &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "openai", infos[0].Name)
	assert.Equal(t, []string{"sk-test"}, infos[0].APIKeys)
}

func TestExporter_AllConfigs(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(testLogger(), testRegistry(t, sampleProfile()), t.TempDir())

	path, err := exporter.AllConfigs(DestFile)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var profiles []*provider.Profile
	require.NoError(t, json.Unmarshal(content, &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "openai", profiles[0].Name)
}

func TestExporter_EmptyRegistryIsError(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(testLogger(), testRegistry(t), t.TempDir())

	_, err := exporter.APIKeysAndURLs(DestFile)
	require.ErrorIs(t, err, ErrNothingToExport)

	_, err = exporter.AllConfigs(DestFile)
	require.ErrorIs(t, err, ErrNothingToExport)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParseDestination(t *testing.T) {
	t.Parallel()

	got, err := ParseDestination("Clipboard")
	require.NoError(t, err)
	assert.Equal(t, DestClipboard, got)

	_, err = ParseDestination("printer")
	require.ErrorIs(t, err, ErrUnknownDestination)
}

func TestTimestampedName(t *testing.T) {
	t.Parallel()

	name := timestampedName("model_test_report", "csv")
	assert.True(t, strings.HasPrefix(name, "model_test_report_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
