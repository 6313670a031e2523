package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LLMCHECK_STORE", "")
	t.Setenv("LLMCHECK_EXPORT_DIR", "")
	t.Setenv("LLMCHECK_REQUEST_TIMEOUT", "")
	t.Setenv("LLMCHECK_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, DefaultExportDir, cfg.ExportDir)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.Workers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLMCHECK_STORE", "/tmp/providers.yaml")
	t.Setenv("LLMCHECK_EXPORT_DIR", "/tmp/exports")
	t.Setenv("LLMCHECK_REQUEST_TIMEOUT", "10")
	t.Setenv("LLMCHECK_WORKERS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/providers.yaml", cfg.StorePath)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_InvalidNumbersRejected(t *testing.T) {
	t.Setenv("LLMCHECK_REQUEST_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestString_ShowsUnboundedWorkers(t *testing.T) {
	cfg := &Config{
		StorePath:      "data/providers.yaml",
		ExportDir:      "exports",
		RequestTimeout: 30 * time.Second,
		Workers:        0,
	}

	out := cfg.String()
	assert.Contains(t, out, "data/providers.yaml")
	assert.Contains(t, out, "(unbounded)")
}
