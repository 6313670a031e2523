// Package probe runs concurrent connectivity tests against provider models.
package probe

import (
	"time"

	"github.com/google/uuid"

	"github.com/llmops/llmcheck/internal/provider"
)

// Status is the terminal classification of a single model's test call.
type Status string

const (
	// StatusSuccess means the model answered a probe within the timeout.
	StatusSuccess Status = "success"
	// StatusConfigError means the model id could not be resolved against the profile.
	StatusConfigError Status = "config_error"
	// StatusNetworkError means the transport failed before an HTTP response arrived.
	StatusNetworkError Status = "network_error"
	// StatusTimeout means the per-call deadline elapsed.
	StatusTimeout Status = "timeout"
	// StatusAuthError means the provider rejected the credentials (401/403).
	StatusAuthError Status = "auth_error"
	// StatusHTTPError means the provider returned some other non-2xx response.
	StatusHTTPError Status = "http_error"
	// StatusBadResponse means a 2xx response did not look like a completion.
	StatusBadResponse Status = "bad_response"
	// StatusCancelled means the batch was aborted before the call settled.
	StatusCancelled Status = "cancelled"
)

// OK reports whether the status is a pass.
func (s Status) OK() bool {
	return s == StatusSuccess
}

// Outcome records the result of one model's test call. Immutable once produced.
type Outcome struct {
	ModelID     string        `json:"model_id"`
	ActualModel string        `json:"actual_model,omitempty"`
	Status      Status        `json:"status"`
	Latency     time.Duration `json:"-"`
	LatencyMS   int64         `json:"latency_ms"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	Category    string        `json:"error_category,omitempty"`
	Advice      string        `json:"advice,omitempty"`
}

// Report aggregates the outcomes of one batch. Outcomes appear in the same
// order the model ids were requested, one per model, regardless of failures.
type Report struct {
	ID          string           `json:"id"`
	Provider    string           `json:"provider"`
	APIType     provider.APIType `json:"api_type"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt time.Time        `json:"completed_at"`
	Outcomes    []Outcome        `json:"outcomes"`
}

// Succeeded counts passing outcomes.
func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status.OK() {
			n++
		}
	}
	return n
}

// Failed counts non-passing outcomes.
func (r *Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

func newReport(providerName string, apiType provider.APIType) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Provider:  providerName,
		APIType:   apiType,
		StartedAt: time.Now(),
	}
}
