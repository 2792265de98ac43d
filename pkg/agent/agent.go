// Package agent answers natural-language questions about a frame by
// pairing it with a language model.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"
)

var ErrNoFrame = errors.New("agent needs an active frame")

// Turn is one answered question kept as conversation memory.
type Turn struct {
	Question string
	Answer   string
}

type Agent struct {
	provider   llm.LLMProvider
	frame      *frame.Frame
	memory     []Turn
	sampleRows int
}

type Option func(*Agent)

// WithMemory seeds the agent with earlier exchanges of this session.
func WithMemory(turns []Turn) Option {
	return func(a *Agent) {
		a.memory = turns
	}
}

// WithSampleRows sets how many leading rows are shown to the model.
func WithSampleRows(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.sampleRows = n
		}
	}
}

func New(provider llm.LLMProvider, f *frame.Frame, opts ...Option) (*Agent, error) {
	if f == nil {
		return nil, ErrNoFrame
	}
	a := &Agent{
		provider:   provider,
		frame:      f,
		sampleRows: 5,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Chat asks the model one question about the bound frame.
func (a *Agent) Chat(ctx context.Context, question string) (string, error) {
	history := make([]llm.Message, 0, 2+2*len(a.memory))
	history = append(history, llm.Message{Role: "system", Content: NewPromptBuilder(a.frame, a.sampleRows).Build()})
	for _, turn := range a.memory {
		history = append(history,
			llm.Message{Role: "user", Content: turn.Question},
			llm.Message{Role: "assistant", Content: turn.Answer},
		)
	}
	history = append(history, llm.Message{Role: "user", Content: question})

	answer, err := a.provider.Chat(ctx, history)
	if err != nil {
		return "", fmt.Errorf("agent chat: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("agent chat: model returned an empty answer")
	}
	return answer, nil
}
