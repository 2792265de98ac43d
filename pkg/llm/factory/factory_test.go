package factory

import (
	"testing"

	"data-explorer-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	build := New(Settings{Model: "gpt-4o-mini"})

	p, err := build(llm.Credentials{Provider: llm.ProviderOpenAI, APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = build(llm.Credentials{Provider: "bard", APIKey: "x"})
	assert.ErrorIs(t, err, llm.ErrUnknownProvider)

	p, err = build(llm.Credentials{Provider: llm.ProviderAzure, APIKey: "x"})
	assert.Nil(t, p)
	var missing *llm.MissingCredentialError
	assert.ErrorAs(t, err, &missing)
}
