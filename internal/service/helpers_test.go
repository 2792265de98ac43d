package service

import (
	"context"
	"sync"
	"testing"

	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/pkg/events"
	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type stubLLM struct {
	answer string
	err    error
	calls  [][]llm.Message
}

func (s *stubLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.calls = append(s.calls, history)
	return s.answer, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func nopLogger() logger.ILogger {
	return logger.NewFromZap(zap.NewNop())
}

func titanic(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.ParseCSV("titanic.csv", []byte("Name,Age,Fare\nBraund,22,7.25\nCumings,38,71.28\n"), "utf-8")
	require.NoError(t, err)
	return f
}
