package probe

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handbookEntry pairs a short error category with actionable advice.
type handbookEntry struct {
	Category string
	Advice   string
}

// handbook maps HTTP status codes and provider error codes to diagnoses.
var handbook = map[string]handbookEntry{
	"400": {"bad request", "check request parameters, especially the model name and sampling values"},
	"401": {"authentication failed", "the API key is invalid or expired, update the provider's key"},
	"403": {"permission denied", "the API key has no access to this model, check account permissions"},
	"404": {"not found", "the model does not exist or the endpoint URL is wrong, check the model id and base URL"},
	"429": {"rate limited", "the provider's rate limit was hit, retry later or reduce batch size"},
	"500": {"server error", "provider-side failure, retry later"},
	"502": {"bad gateway", "provider gateway failure, retry later"},
	"503": {"service unavailable", "the provider is temporarily unavailable, retry later"},
	"504": {"gateway timeout", "the provider's upstream timed out, check connectivity or retry later"},

	"model_not_found":         {"model not found", "the model id does not exist on this provider, check the mapping"},
	"context_length_exceeded": {"context length exceeded", "the probe prompt exceeds the model's context window"},
	"content_filter":          {"content filtered", "the request was blocked by the provider's content filter"},
	"quota_exceeded":          {"quota exceeded", "the account quota is exhausted, top up or raise the limit"},

	"connection_error": {"connection error", "could not reach the provider, check network and base URL"},
	"timeout":          {"request timeout", "the call exceeded the per-call timeout, raise it or retry later"},
	"cancelled":        {"cancelled", "the batch was aborted before this call finished"},
	"unknown":          {"unknown error", "unrecognized failure, inspect the error detail"},
}

// apiError is the error envelope OpenAI-compatible providers return.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// diagnose classifies a non-2xx HTTP response. The body, when parseable, can
// carry a provider error code that is more specific than the status code.
func diagnose(statusCode int, body []byte) (entry handbookEntry, detail string) {
	entry, ok := handbook[fmt.Sprintf("%d", statusCode)]
	if !ok {
		entry = handbook["unknown"]
	}

	detail = fmt.Sprintf("HTTP %d %s", statusCode, http.StatusText(statusCode))

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		code := apiErr.Error.Type
		if code == "" {
			code = apiErr.Error.Code
		}

		if specific, ok := handbook[code]; ok {
			entry = specific
		}

		if apiErr.Error.Message != "" {
			detail = fmt.Sprintf("%s: %s", detail, apiErr.Error.Message)
		}
	}

	return entry, detail
}
