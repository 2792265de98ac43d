package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"data-explorer-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

const DefaultModel = goopenai.GPT3Dot5Turbo

// Provider talks to the OpenAI chat completions API, either directly or
// through an Azure OpenAI deployment.
type Provider struct {
	client *goopenai.Client
	model  string
}

// Ensure Provider implements LLMProvider
var _ llm.LLMProvider = &Provider{}

type Config struct {
	Model   string
	BaseURL string // overrides api.openai.com, mainly for proxies and tests
	Timeout time.Duration
}

func NewProvider(creds llm.Credentials, cfg Config) (*Provider, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var clientCfg goopenai.ClientConfig
	switch creds.Provider {
	case llm.ProviderAzure:
		clientCfg = goopenai.DefaultAzureConfig(creds.APIKey, creds.Endpoint)
		clientCfg.APIVersion = creds.APIVersion
		deployment := creds.Deployment
		clientCfg.AzureModelMapperFunc = func(string) string {
			return deployment
		}
	default:
		clientCfg = goopenai.DefaultConfig(creds.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Provider{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0,
		Model:       p.model,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       options.Model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai error: status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices from openai api")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: goopenai.ChatMessageRoleUser, Content: prompt}}, opts...)
}
