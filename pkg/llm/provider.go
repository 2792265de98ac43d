package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

var ErrUnknownProvider = errors.New("unknown llm provider")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Credentials is what the user enters in the chat settings panel.
type Credentials struct {
	Provider   string `json:"provider"`
	APIKey     string `json:"api_key"`
	Endpoint   string `json:"endpoint,omitempty"`
	APIVersion string `json:"api_version,omitempty"`
	Deployment string `json:"deployment,omitempty"`
}

// MissingCredentialError lists the credential fields a provider needs but
// did not get, in the order the settings panel asks for them.
type MissingCredentialError struct {
	Provider string
	Fields   []string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("please provide your %s %s", ProviderLabel(e.Provider), e.Fields[0])
}

func ProviderLabel(provider string) string {
	switch provider {
	case ProviderAzure:
		return "Azure OpenAI"
	default:
		return "OpenAI"
	}
}

// Validate checks that every field the provider requires is present.
func (c Credentials) Validate() error {
	var missing []string
	switch c.Provider {
	case ProviderOpenAI:
		if c.APIKey == "" {
			missing = append(missing, "API key")
		}
	case ProviderAzure:
		if c.APIKey == "" {
			missing = append(missing, "API key")
		}
		if c.Endpoint == "" {
			missing = append(missing, "endpoint")
		}
		if c.APIVersion == "" {
			missing = append(missing, "API version")
		}
		if c.Deployment == "" {
			missing = append(missing, "deployment name")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if len(missing) > 0 {
		return &MissingCredentialError{Provider: c.Provider, Fields: missing}
	}
	return nil
}
