// Package report renders batch test reports for the terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/llmops/llmcheck/internal/probe"
)

// Printer writes human-readable reports.
type Printer struct {
	enabled bool
}

// NewPrinter creates a printer. Colors are dropped when not writing to a
// terminal, following the NO_COLOR convention fatih/color implements.
func NewPrinter() *Printer {
	return &Printer{enabled: !color.NoColor}
}

// Print renders the full report: an outcome table in request order followed
// by a summary line.
func (p *Printer) Print(w io.Writer, r *probe.Report) {
	fmt.Fprintf(w, "\nProvider: %s (%s)\n", r.Provider, r.APIType)
	fmt.Fprintf(w, "Started:  %s\n\n", r.StartedAt.Format(time.RFC3339))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Model", "Status", "Latency", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetBorder(true)
	table.SetTablePadding(" ")

	for _, o := range r.Outcomes {
		table.Append([]string{
			o.ModelID,
			p.formatStatus(o.Status),
			formatLatency(o),
			detail(o),
		})
	}

	table.Render()

	duration := r.CompletedAt.Sub(r.StartedAt)
	fmt.Fprintf(w, "\n%d models tested in %s: %s passed, %s failed\n",
		len(r.Outcomes),
		formatDuration(duration),
		p.count(r.Succeeded(), true),
		p.count(r.Failed(), false),
	)
}

func (p *Printer) formatStatus(s probe.Status) string {
	if !p.enabled {
		return string(s)
	}

	switch s {
	case probe.StatusSuccess:
		return color.GreenString(string(s))
	case probe.StatusTimeout, probe.StatusCancelled:
		return color.YellowString(string(s))
	default:
		return color.RedString(string(s))
	}
}

func (p *Printer) count(n int, passed bool) string {
	text := fmt.Sprintf("%d", n)
	if !p.enabled || n == 0 {
		return text
	}

	if passed {
		return color.GreenString(text)
	}

	return color.RedString(text)
}

func formatLatency(o probe.Outcome) string {
	if !o.Status.OK() {
		return "-"
	}
	return fmt.Sprintf("%dms", o.LatencyMS)
}

func detail(o probe.Outcome) string {
	if o.Status.OK() {
		return ""
	}

	if o.Category != "" {
		return fmt.Sprintf("%s: %s", o.Category, o.ErrorDetail)
	}

	return o.ErrorDetail
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
