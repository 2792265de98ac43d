package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"data-explorer-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderChat(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"891 rows"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(
		llm.Credentials{Provider: llm.ProviderOpenAI, APIKey: "sk-test"},
		Config{BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini"},
	)
	require.NoError(t, err)

	answer, err := p.Generate(context.Background(), "How many rows?")
	require.NoError(t, err)

	assert.Equal(t, "891 rows", answer)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
}

func TestProviderChat_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	p, err := NewProvider(
		llm.Credentials{Provider: llm.ProviderOpenAI, APIKey: "sk-wrong"},
		Config{BaseURL: srv.URL + "/v1"},
	)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}

func TestNewProvider_AzureMissingFields(t *testing.T) {
	p, err := NewProvider(llm.Credentials{Provider: llm.ProviderAzure, APIKey: "key", Endpoint: "https://x.openai.azure.com"}, Config{})

	assert.Nil(t, p)
	var missing *llm.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"API version", "deployment name"}, missing.Fields)
}

func TestNewProvider_Azure(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		gotVersion = r.URL.Query().Get("api-version")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	p, err := NewProvider(llm.Credentials{
		Provider:   llm.ProviderAzure,
		APIKey:     "azure-key",
		Endpoint:   srv.URL,
		APIVersion: "2024-02-01",
		Deployment: "analyst",
	}, Config{})
	require.NoError(t, err)

	answer, err := p.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	assert.Equal(t, "/openai/deployments/analyst/chat/completions", gotPath)
	assert.Equal(t, "azure-key", gotKey)
	assert.Equal(t, "2024-02-01", gotVersion)
}
