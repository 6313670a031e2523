package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile Profile
		wantErr error
	}{
		{
			name: "valid openai profile without base url",
			profile: Profile{
				Name:    "openai",
				APIType: APITypeOpenAI,
				APIKeys: []string{"sk-test"},
			},
		},
		{
			name: "valid azure profile",
			profile: Profile{
				Name:    "azure",
				APIType: APITypeAzureOpenAI,
				BaseURL: "https://myorg.openai.azure.com",
				APIKeys: []string{"az-key"},
			},
		},
		{
			name: "missing name",
			profile: Profile{
				APIType: APITypeOpenAI,
				APIKeys: []string{"sk-test"},
			},
			wantErr: ErrNameRequired,
		},
		{
			name: "missing api key",
			profile: Profile{
				Name:    "openai",
				APIType: APITypeOpenAI,
			},
			wantErr: ErrAPIKeyRequired,
		},
		{
			name: "azure without base url",
			profile: Profile{
				Name:    "azure",
				APIType: APITypeAzureOpenAI,
				APIKeys: []string{"az-key"},
			},
			wantErr: ErrBaseURLRequired,
		},
		{
			name: "unknown api type",
			profile: Profile{
				Name:    "weird",
				APIType: "grpc",
				APIKeys: []string{"key"},
			},
			wantErr: ErrUnknownAPIType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.profile.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestProfile_Resolve(t *testing.T) {
	t.Parallel()

	p := Profile{
		Name:          "mixed",
		APIType:       APITypeOpenAI,
		APIKeys:       []string{"sk"},
		Models:        []string{"gpt-4", "shadowed"},
		ModelMappings: map[string]string{"friendly": "ep-123", "shadowed": "ep-456"},
	}

	t.Run("supported model resolves to itself", func(t *testing.T) {
		t.Parallel()

		actual, err := p.Resolve("gpt-4")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4", actual)
	})

	t.Run("mapping resolves to actual id", func(t *testing.T) {
		t.Parallel()

		actual, err := p.Resolve("friendly")
		require.NoError(t, err)
		assert.Equal(t, "ep-123", actual)
	})

	t.Run("mapping shadows supported model", func(t *testing.T) {
		t.Parallel()

		actual, err := p.Resolve("shadowed")
		require.NoError(t, err)
		assert.Equal(t, "ep-456", actual)
	})

	t.Run("unknown model fails", func(t *testing.T) {
		t.Parallel()

		_, err := p.Resolve("nope")
		require.ErrorIs(t, err, ErrModelNotConfigured)
	})
}

func TestProfile_Endpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{
			name:    "openai default",
			profile: Profile{APIType: APITypeOpenAI},
			want:    DefaultBaseURL,
		},
		{
			name:    "explicit base url",
			profile: Profile{APIType: APITypeOpenAI, BaseURL: "https://proxy.example.com"},
			want:    "https://proxy.example.com",
		},
		{
			name:    "trailing slash trimmed",
			profile: Profile{APIType: APITypeOther, BaseURL: "https://proxy.example.com/"},
			want:    "https://proxy.example.com",
		},
		{
			name:    "non-openai without base url is empty",
			profile: Profile{APIType: APITypeOther},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.profile.Endpoint())
		})
	}
}

func TestProfile_MaskedKeys(t *testing.T) {
	t.Parallel()

	p := Profile{APIKeys: []string{"sk-abcdefghijklmnop", "short"}}

	masked := p.MaskedKeys()
	require.Len(t, masked, 2)
	assert.Equal(t, "sk-a***********mnop", masked[0])
	assert.Equal(t, "*****", masked[1])
}

func TestParseAPIType(t *testing.T) {
	t.Parallel()

	got, err := ParseAPIType(" OpenAI ")
	require.NoError(t, err)
	assert.Equal(t, APITypeOpenAI, got)

	_, err = ParseAPIType("soap")
	require.ErrorIs(t, err, ErrUnknownAPIType)
}
