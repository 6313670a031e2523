package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/llmops/llmcheck/internal/provider"
)

const (
	// defaultTimeout bounds a single probe call when the caller does not.
	defaultTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response body is read. Probe responses
	// are tiny; anything larger is truncated rather than buffered.
	maxBodyBytes = 1 << 20
)

var (
	errNoModels   = errors.New("no models selected")
	errNilProfile = errors.New("provider profile is required")
	errNoChoices  = errors.New("completion has no choices")
)

// Options configures a batch run.
type Options struct {
	// Timeout bounds each individual call. Zero means defaultTimeout.
	Timeout time.Duration

	// Workers caps concurrent calls. Zero means one goroutine per model
	// with no cap, which is fine for human-selected batches.
	Workers int

	// OnSettle, when set, is invoked once per settled outcome. Invocations
	// are serialized; a slow callback delays only notification, not the
	// sibling calls themselves.
	OnSettle func(Outcome)
}

// Runner executes concurrent model connectivity tests.
type Runner interface {
	Run(ctx context.Context, p *provider.Profile, modelIDs []string, opts Options) (*Report, error)
}

type runner struct {
	client *http.Client
	log    logrus.FieldLogger
}

// NewRunner creates a batch runner. A nil client uses a default one; the
// per-call timeout is enforced via context, not the client.
func NewRunner(log logrus.FieldLogger, client *http.Client) Runner {
	if client == nil {
		client = &http.Client{}
	}

	return &runner{
		client: client,
		log:    log.WithField("component", "probe_runner"),
	}
}

// Run dispatches one test call per model id concurrently and waits for every
// call to settle. The returned report holds exactly one outcome per requested
// id, in request order. Per-call failures become outcomes; only an unusable
// batch (no models, no profile, no key) fails before dispatch.
func (r *runner) Run(ctx context.Context, p *provider.Profile, modelIDs []string, opts Options) (*Report, error) {
	if p == nil {
		return nil, errNilProfile
	}

	if len(modelIDs) == 0 {
		return nil, errNoModels
	}

	if p.Key() == "" {
		return nil, provider.ErrAPIKeyRequired
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	log := r.log.WithField("provider", p.Name)
	log.WithFields(logrus.Fields{
		"models":  len(modelIDs),
		"timeout": timeout,
		"workers": opts.Workers,
	}).Debug("starting batch")

	report := newReport(p.Name, p.APIType)

	var (
		outcomes = make([]Outcome, len(modelIDs))
		settleMu sync.Mutex
	)

	settle := func(i int, o Outcome) {
		outcomes[i] = o

		if opts.OnSettle == nil {
			return
		}

		settleMu.Lock()
		defer settleMu.Unlock()
		opts.OnSettle(o)
	}

	g, gCtx := errgroup.WithContext(ctx)

	var sem chan struct{}
	if opts.Workers > 0 {
		sem = make(chan struct{}, opts.Workers)
	}

	for i, modelID := range modelIDs {
		i, modelID := i, modelID
		g.Go(func() error {
			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-gCtx.Done():
					settle(i, cancelledOutcome(modelID))
					return nil
				}
			}

			settle(i, r.testModel(gCtx, log, p, modelID, timeout))
			return nil
		})
	}

	// Goroutines convert every failure into an outcome, so Wait cannot fail.
	_ = g.Wait()

	report.Outcomes = outcomes
	report.CompletedAt = time.Now()

	log.WithFields(logrus.Fields{
		"total":    len(report.Outcomes),
		"passed":   report.Succeeded(),
		"failed":   report.Failed(),
		"duration": report.CompletedAt.Sub(report.StartedAt),
	}).Info("batch complete")

	return report, nil
}

// testModel issues a single probe call and classifies the result. It never
// returns an error; every failure mode maps to an outcome status.
func (r *runner) testModel(ctx context.Context, log logrus.FieldLogger, p *provider.Profile, modelID string, timeout time.Duration) Outcome {
	out := Outcome{ModelID: modelID}

	actual, err := p.Resolve(modelID)
	if err != nil {
		out.Status = StatusConfigError
		out.ErrorDetail = err.Error()
		out.Category = "configuration error"
		out.Advice = "add the model to the provider's supported models or model mappings"
		return out
	}
	out.ActualModel = actual

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := buildRequest(callCtx, p, actual)
	if err != nil {
		out.Status = StatusConfigError
		out.ErrorDetail = err.Error()
		out.Category = "configuration error"
		out.Advice = "check the provider's base URL"
		return out
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return classifyTransportError(out, callCtx, ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransportError(out, callCtx, ctx, err)
	}

	latency := time.Since(start)

	log.WithFields(logrus.Fields{
		"model":   modelID,
		"status":  resp.StatusCode,
		"latency": latency,
	}).Debug("probe call settled")

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		entry, detail := diagnose(resp.StatusCode, body)
		out.Status = StatusAuthError
		out.ErrorDetail = detail
		out.Category = entry.Category
		out.Advice = entry.Advice

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		entry, detail := diagnose(resp.StatusCode, body)
		out.Status = StatusHTTPError
		out.ErrorDetail = detail
		out.Category = entry.Category
		out.Advice = entry.Advice

	default:
		if err := validateCompletion(body); err != nil {
			out.Status = StatusBadResponse
			out.ErrorDetail = err.Error()
			out.Category = "malformed response"
			out.Advice = "the endpoint answered 2xx but not with a chat completion, check the base URL and API type"
			return out
		}

		out.Status = StatusSuccess
		out.Latency = latency
		out.LatencyMS = latency.Milliseconds()
	}

	return out
}

// classifyTransportError separates per-call timeouts, batch cancellation and
// genuine network failures. Precedence: timeout, then cancellation.
func classifyTransportError(out Outcome, callCtx, batchCtx context.Context, err error) Outcome {
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		entry := handbook["timeout"]
		out.Status = StatusTimeout
		out.ErrorDetail = fmt.Sprintf("call exceeded timeout: %v", err)
		out.Category = entry.Category
		out.Advice = entry.Advice

	case batchCtx.Err() != nil:
		entry := handbook["cancelled"]
		out.Status = StatusCancelled
		out.ErrorDetail = "batch cancelled"
		out.Category = entry.Category
		out.Advice = entry.Advice

	default:
		entry := handbook["connection_error"]
		out.Status = StatusNetworkError
		out.ErrorDetail = err.Error()
		out.Category = entry.Category
		out.Advice = entry.Advice
	}

	return out
}

func cancelledOutcome(modelID string) Outcome {
	entry := handbook["cancelled"]

	return Outcome{
		ModelID:     modelID,
		Status:      StatusCancelled,
		ErrorDetail: "batch cancelled",
		Category:    entry.Category,
		Advice:      entry.Advice,
	}
}
