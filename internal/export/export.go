// Package export writes reports and provider configuration to files or the
// system clipboard.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/llmops/llmcheck/internal/probe"
	"github.com/llmops/llmcheck/internal/provider"
)

// Format selects the report encoding.
type Format string

// Destination selects where an export lands.
type Destination string

const (
	// FormatText is a plain text rendering.
	FormatText Format = "text"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatCSV is one row per outcome.
	FormatCSV Format = "csv"

	// DestFile writes to a timestamped file under the export directory.
	DestFile Destination = "file"
	// DestClipboard copies to the system clipboard.
	DestClipboard Destination = "clipboard"
)

var (
	// ErrUnknownFormat is returned for an unrecognized format name.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrUnknownDestination is returned for an unrecognized destination name.
	ErrUnknownDestination = errors.New("unknown export destination")
	// ErrNothingToExport is returned when the selected data set is empty.
	ErrNothingToExport = errors.New("nothing to export")
)

// ParseFormat converts a string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseDestination converts a string into a Destination.
func ParseDestination(s string) (Destination, error) {
	switch Destination(strings.ToLower(strings.TrimSpace(s))) {
	case DestFile:
		return DestFile, nil
	case DestClipboard:
		return DestClipboard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDestination, s)
	}
}

// Exporter writes registry data and test reports out of the process.
type Exporter struct {
	registry provider.Registry
	dir      string
	log      logrus.FieldLogger
}

// NewExporter creates an exporter writing files under dir.
func NewExporter(log logrus.FieldLogger, registry provider.Registry, dir string) *Exporter {
	return &Exporter{
		registry: registry,
		dir:      dir,
		log:      log.WithField("component", "exporter"),
	}
}

// Report encodes a test report and delivers it. For file destinations the
// written path is returned; clipboard delivery returns an empty path.
func (e *Exporter) Report(r *probe.Report, format Format, dest Destination) (string, error) {
	content, ext, err := encodeReport(r, format)
	if err != nil {
		return "", err
	}

	return e.deliver(content, "model_test_report", ext, dest)
}

// ModelMappings exports one provider's friendly-name mappings as JSON.
func (e *Exporter) ModelMappings(providerName string, dest Destination) (string, error) {
	p, err := e.registry.Get(providerName)
	if err != nil {
		return "", err
	}

	if len(p.ModelMappings) == 0 {
		return "", fmt.Errorf("%w: provider %q has no model mappings", ErrNothingToExport, providerName)
	}

	content, err := marshalJSON(p.ModelMappings)
	if err != nil {
		return "", err
	}

	return e.deliver(content, p.Name+"_model_mappings", "json", dest)
}

// Models exports one provider's model list as a comma-joined string. With
// mapped set, the mapping keys (friendly names) are exported instead.
func (e *Exporter) Models(providerName string, mapped bool, dest Destination) (string, error) {
	p, err := e.registry.Get(providerName)
	if err != nil {
		return "", err
	}

	var models []string
	if mapped {
		models = make([]string, 0, len(p.ModelMappings))
		for name := range p.ModelMappings {
			models = append(models, name)
		}
		sort.Strings(models)
	} else {
		models = p.Models
	}

	if len(models) == 0 {
		return "", fmt.Errorf("%w: provider %q has no models", ErrNothingToExport, providerName)
	}

	kind := "supported"
	if mapped {
		kind = "mapped"
	}

	return e.deliver(strings.Join(models, ","), fmt.Sprintf("%s_%s_models", p.Name, kind), "txt", dest)
}

// keyInfo is the shape of the keys-and-urls export.
type keyInfo struct {
	Name    string   `json:"name"`
	BaseURL string   `json:"base_url,omitempty"`
	APIKeys []string `json:"api_keys"`
}

// APIKeysAndURLs exports every provider's keys and base URL as JSON.
func (e *Exporter) APIKeysAndURLs(dest Destination) (string, error) {
	profiles := e.registry.List()
	if len(profiles) == 0 {
		return "", fmt.Errorf("%w: no providers configured", ErrNothingToExport)
	}

	infos := make([]keyInfo, 0, len(profiles))
	for _, p := range profiles {
		infos = append(infos, keyInfo{Name: p.Name, BaseURL: p.BaseURL, APIKeys: p.APIKeys})
	}

	content, err := marshalJSON(infos)
	if err != nil {
		return "", err
	}

	return e.deliver(content, "api_keys_and_urls", "json", dest)
}

// AllConfigs exports every provider profile in full as JSON.
func (e *Exporter) AllConfigs(dest Destination) (string, error) {
	profiles := e.registry.List()
	if len(profiles) == 0 {
		return "", fmt.Errorf("%w: no providers configured", ErrNothingToExport)
	}

	content, err := marshalJSON(profiles)
	if err != nil {
		return "", err
	}

	return e.deliver(content, "all_provider_configs", "json", dest)
}

func (e *Exporter) deliver(content, prefix, ext string, dest Destination) (string, error) {
	switch dest {
	case DestClipboard:
		if err := clipboard.WriteAll(content); err != nil {
			return "", fmt.Errorf("copying to clipboard: %w", err)
		}

		e.log.WithField("export", prefix).Debug("copied to clipboard")

		return "", nil

	case DestFile:
		if err := os.MkdirAll(e.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating export directory: %w", err)
		}

		path := filepath.Join(e.dir, timestampedName(prefix, ext))
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return "", fmt.Errorf("writing export file: %w", err)
		}

		e.log.WithField("path", path).Debug("export written")

		return path, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDestination, dest)
	}
}

func encodeReport(r *probe.Report, format Format) (content, ext string, err error) {
	switch format {
	case FormatJSON:
		content, err = marshalJSON(r)
		return content, "json", err

	case FormatCSV:
		content, err = reportCSV(r)
		return content, "csv", err

	case FormatText:
		return reportText(r), "txt", nil

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func reportCSV(r *probe.Report) (string, error) {
	var sb strings.Builder

	w := csv.NewWriter(&sb)
	header := []string{"timestamp", "provider", "model_id", "actual_model", "status", "latency_ms", "error_category", "error_detail", "advice"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}

	for _, o := range r.Outcomes {
		row := []string{
			r.StartedAt.Format(time.RFC3339),
			r.Provider,
			o.ModelID,
			o.ActualModel,
			string(o.Status),
			fmt.Sprintf("%d", o.LatencyMS),
			o.Category,
			o.ErrorDetail,
			o.Advice,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}

	return sb.String(), nil
}

func reportText(r *probe.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Provider: %s (%s)\n", r.Provider, r.APIType)
	fmt.Fprintf(&sb, "Started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Completed: %s\n\n", r.CompletedAt.Format(time.RFC3339))

	for _, o := range r.Outcomes {
		if o.Status.OK() {
			fmt.Fprintf(&sb, "%s: %s (%dms)\n", o.ModelID, o.Status, o.LatencyMS)
			continue
		}
		fmt.Fprintf(&sb, "%s: %s - %s\n", o.ModelID, o.Status, o.ErrorDetail)
	}

	fmt.Fprintf(&sb, "\nTotal: %d, passed: %d, failed: %d\n", len(r.Outcomes), r.Succeeded(), r.Failed())

	return sb.String()
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding json: %w", err)
	}
	return string(data), nil
}

func timestampedName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}
