package factory

import (
	"data-explorer-be/pkg/llm"
	"data-explorer-be/pkg/llm/openai"
	"fmt"
	"time"
)

type Settings struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Factory builds a provider from the credentials a session entered.
type Factory func(creds llm.Credentials) (llm.LLMProvider, error)

func New(settings Settings) Factory {
	return func(creds llm.Credentials) (llm.LLMProvider, error) {
		return NewLLMProvider(creds, settings)
	}
}

func NewLLMProvider(creds llm.Credentials, settings Settings) (llm.LLMProvider, error) {
	switch creds.Provider {
	case llm.ProviderOpenAI, llm.ProviderAzure:
		p, err := openai.NewProvider(creds, openai.Config{
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", llm.ErrUnknownProvider, creds.Provider)
	}
}
