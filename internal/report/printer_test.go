package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/llmops/llmcheck/internal/probe"
	"github.com/llmops/llmcheck/internal/provider"
)

func sampleReport() *probe.Report {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	return &probe.Report{
		ID:          "batch-1",
		Provider:    "openai",
		APIType:     provider.APITypeOpenAI,
		StartedAt:   started,
		CompletedAt: started.Add(1500 * time.Millisecond),
		Outcomes: []probe.Outcome{
			{ModelID: "gpt-4", Status: probe.StatusSuccess, LatencyMS: 312},
			{ModelID: "gpt-9-fake", Status: probe.StatusHTTPError, Category: "not found", ErrorDetail: "HTTP 404 Not Found"},
			{ModelID: "slow-model", Status: probe.StatusTimeout, Category: "request timeout", ErrorDetail: "call exceeded timeout"},
		},
	}
}

func TestPrinter_Print(t *testing.T) {
	// Disable colors for consistent testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	NewPrinter().Print(&buf, sampleReport())

	out := buf.String()

	assert.Contains(t, out, "Provider: openai (openai)")
	assert.Contains(t, out, "gpt-4")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "312ms")
	assert.Contains(t, out, "not found: HTTP 404 Not Found")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "3 models tested in 1.5s: 1 passed, 2 failed")
}

func TestPrinter_RowsFollowRequestOrder(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	NewPrinter().Print(&buf, sampleReport())

	out := buf.String()

	first := bytes.Index([]byte(out), []byte("gpt-4"))
	second := bytes.Index([]byte(out), []byte("gpt-9-fake"))
	third := bytes.Index([]byte(out), []byte("slow-model"))

	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "milliseconds", d: 420 * time.Millisecond, want: "420ms"},
		{name: "seconds", d: 1500 * time.Millisecond, want: "1.5s"},
		{name: "minutes", d: 90 * time.Second, want: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
