// Package provider manages LLM provider profiles and their persistence.
package provider

import (
	"errors"
	"fmt"
	"strings"
)

// APIType identifies the request conventions a provider speaks.
type APIType string

const (
	// APITypeOpenAI is the standard OpenAI chat-completions convention.
	APITypeOpenAI APIType = "openai"
	// APITypeAzureOpenAI is the Azure OpenAI deployment-based convention.
	APITypeAzureOpenAI APIType = "azure_openai"
	// APITypeOther covers OpenAI-compatible endpoints with non-standard hosts.
	APITypeOther APIType = "other"
)

// DefaultBaseURL is used for openai-type profiles that leave BaseURL empty.
const DefaultBaseURL = "https://api.openai.com"

var (
	// ErrNameRequired is returned when a profile has no name.
	ErrNameRequired = errors.New("provider name is required")
	// ErrAPIKeyRequired is returned when a profile has no API keys.
	ErrAPIKeyRequired = errors.New("at least one API key is required")
	// ErrBaseURLRequired is returned when a profile type needs an explicit base URL.
	ErrBaseURLRequired = errors.New("base URL is required for this API type")
	// ErrUnknownAPIType is returned for an unrecognized API type.
	ErrUnknownAPIType = errors.New("unknown API type")
	// ErrModelNotConfigured is returned when a model id resolves to neither
	// the supported model list nor a mapping key.
	ErrModelNotConfigured = errors.New("model not configured for provider")
)

// APITypes lists the supported API types in menu order.
func APITypes() []APIType {
	return []APIType{APITypeOpenAI, APITypeAzureOpenAI, APITypeOther}
}

// ParseAPIType converts a string into an APIType.
func ParseAPIType(s string) (APIType, error) {
	switch APIType(strings.ToLower(strings.TrimSpace(s))) {
	case APITypeOpenAI:
		return APITypeOpenAI, nil
	case APITypeAzureOpenAI:
		return APITypeAzureOpenAI, nil
	case APITypeOther:
		return APITypeOther, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAPIType, s)
	}
}

// Profile is a named provider configuration. A profile is treated as an
// immutable snapshot while a test batch runs against it.
type Profile struct {
	Name          string            `yaml:"name" json:"name"`
	APIType       APIType           `yaml:"api_type" json:"api_type"`
	BaseURL       string            `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	APIKeys       []string          `yaml:"api_keys" json:"api_keys"`
	Models        []string          `yaml:"supported_models,omitempty" json:"supported_models,omitempty"`
	ModelMappings map[string]string `yaml:"model_mappings,omitempty" json:"model_mappings,omitempty"`
	Headers       map[string]string `yaml:"custom_headers,omitempty" json:"custom_headers,omitempty"`
}

// Validate checks the profile is complete enough to store.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}

	if _, err := ParseAPIType(string(p.APIType)); err != nil {
		return err
	}

	if len(p.APIKeys) == 0 || strings.TrimSpace(p.APIKeys[0]) == "" {
		return ErrAPIKeyRequired
	}

	// openai has a well-known default host; everything else must say where it lives.
	if p.APIType != APITypeOpenAI && strings.TrimSpace(p.BaseURL) == "" {
		return ErrBaseURLRequired
	}

	return nil
}

// Key returns the API key used for outbound calls. Profiles may hold several
// keys; probing always uses the first.
func (p *Profile) Key() string {
	if len(p.APIKeys) == 0 {
		return ""
	}
	return p.APIKeys[0]
}

// Endpoint returns the base URL with any trailing slash removed, falling back
// to the default host for openai-type profiles.
func (p *Profile) Endpoint() string {
	base := strings.TrimSpace(p.BaseURL)
	if base == "" && p.APIType == APITypeOpenAI {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/")
}

// Resolve maps a requested model id to the identifier sent on the wire.
// A mapping key wins over a raw supported model of the same name, matching
// how friendly names shadow deployment ids.
func (p *Profile) Resolve(modelID string) (string, error) {
	if actual, ok := p.ModelMappings[modelID]; ok {
		return actual, nil
	}

	for _, m := range p.Models {
		if m == modelID {
			return modelID, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrModelNotConfigured, modelID)
}

// MaskedKeys returns the profile's API keys with their middles obscured,
// suitable for display.
func (p *Profile) MaskedKeys() []string {
	masked := make([]string, 0, len(p.APIKeys))
	for _, key := range p.APIKeys {
		masked = append(masked, maskKey(key))
	}
	return masked
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
