package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name        string
		creds       Credentials
		wantMissing []string
	}{
		{
			name:  "openai with key",
			creds: Credentials{Provider: ProviderOpenAI, APIKey: "sk-test"},
		},
		{
			name:        "openai without key",
			creds:       Credentials{Provider: ProviderOpenAI},
			wantMissing: []string{"API key"},
		},
		{
			name: "azure complete",
			creds: Credentials{
				Provider:   ProviderAzure,
				APIKey:     "key",
				Endpoint:   "https://example.openai.azure.com",
				APIVersion: "2024-02-01",
				Deployment: "gpt-35",
			},
		},
		{
			name:        "azure key only",
			creds:       Credentials{Provider: ProviderAzure, APIKey: "key"},
			wantMissing: []string{"endpoint", "API version", "deployment name"},
		},
		{
			name: "azure missing deployment",
			creds: Credentials{
				Provider:   ProviderAzure,
				APIKey:     "key",
				Endpoint:   "https://example.openai.azure.com",
				APIVersion: "2024-02-01",
			},
			wantMissing: []string{"deployment name"},
		},
		{
			name:        "azure nothing",
			creds:       Credentials{Provider: ProviderAzure},
			wantMissing: []string{"API key", "endpoint", "API version", "deployment name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}
			var missing *MissingCredentialError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantMissing, missing.Fields)
			assert.Contains(t, err.Error(), tt.wantMissing[0])
		})
	}
}

func TestCredentialsValidate_UnknownProvider(t *testing.T) {
	err := Credentials{Provider: "ollama", APIKey: "x"}.Validate()
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
