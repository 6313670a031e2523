package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/llmops/llmcheck/internal/provider"
)

// modelCatalog is the list response shared by OpenAI-compatible providers
// and Azure's deployments endpoint.
type modelCatalog struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels fetches the provider's model catalog. It is used when a profile
// has no configured model list; profiles that do list models never need it.
func ListModels(ctx context.Context, client *http.Client, p *provider.Profile) ([]string, error) {
	if client == nil {
		client = &http.Client{}
	}

	base := p.Endpoint()
	if base == "" {
		return nil, provider.ErrBaseURLRequired
	}

	endpoint := base + "/v1/models"
	if p.APIType == provider.APITypeAzureOpenAI {
		endpoint = base + "/openai/deployments?api-version=" + azureAPIVersion
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for name, value := range p.Headers {
		req.Header.Set(name, value)
	}

	if p.APIType == provider.APITypeAzureOpenAI {
		req.Header.Set("api-key", p.Key())
	} else {
		req.Header.Set("Authorization", "Bearer "+p.Key())
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching model list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading model list: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry, detail := diagnose(resp.StatusCode, body)
		return nil, fmt.Errorf("model list request failed: %s (%s)", detail, entry.Advice)
	}

	var catalog modelCatalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("decoding model list: %w", err)
	}

	models := make([]string, 0, len(catalog.Data))
	for _, m := range catalog.Data {
		if m.ID != "" {
			models = append(models, m.ID)
		}
	}

	sort.Strings(models)

	return models, nil
}
