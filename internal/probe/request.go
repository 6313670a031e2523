package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/llmops/llmcheck/internal/provider"
)

// azureAPIVersion is the query parameter Azure OpenAI requires on every call.
const azureAPIVersion = "2024-02-01"

// chatMessage is a single turn in a chat-completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the minimal probe payload sent to a model.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatResponse is the subset of a chat-completions response needed to decide
// whether the model actually answered.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func probePayload(model string) chatRequest {
	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: "Respond with 'OK'"},
		},
		Temperature: 0.1,
		MaxTokens:   5,
	}
}

// buildRequest constructs the provider-specific HTTP request probing a model.
// The returned request carries the profile's custom headers with the auth
// header applied last so it cannot be overridden.
func buildRequest(ctx context.Context, p *provider.Profile, actualModel string) (*http.Request, error) {
	base := p.Endpoint()
	if base == "" {
		return nil, provider.ErrBaseURLRequired
	}

	var endpoint string
	switch p.APIType {
	case provider.APITypeAzureOpenAI:
		endpoint = fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			base, url.PathEscape(actualModel), azureAPIVersion)
	default:
		endpoint = base + "/v1/chat/completions"
	}

	body, err := json.Marshal(probePayload(actualModel))
	if err != nil {
		return nil, fmt.Errorf("encoding probe payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for name, value := range p.Headers {
		req.Header.Set(name, value)
	}

	switch p.APIType {
	case provider.APITypeAzureOpenAI:
		req.Header.Set("api-key", p.Key())
	default:
		req.Header.Set("Authorization", "Bearer "+p.Key())
	}

	return req, nil
}

// validateCompletion checks a 2xx body has the shape of a chat completion.
func validateCompletion(body []byte) error {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decoding completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return errNoChoices
	}

	return nil
}
