package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"data-explorer-be/internal/constant"
	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/pkg/agent"
	"data-explorer-be/pkg/events"
	"data-explorer-be/pkg/llm"
	"data-explorer-be/pkg/llm/factory"
)

// AskOutcome is the result of one answered question. Err holds the raw
// model error, which is shown to the user and never fails the event.
type AskOutcome struct {
	Answer string
	Err    error
}

type IChatService interface {
	Providers() []string
	Configure(ctx context.Context, state *entity.SessionState, creds llm.Credentials) error
	// Agent builds the session's agent, or explains why there is none.
	Agent(state *entity.SessionState) (*agent.Agent, error)
	// Ask returns ErrAgentUnavailable, leaving the history untouched, when
	// the session has no agent.
	Ask(ctx context.Context, state *entity.SessionState, question string) (AskOutcome, error)
	Clear(ctx context.Context, state *entity.SessionState)
}

type chatService struct {
	providers  []string
	newLLM     factory.Factory
	sampleRows int
	publisher  events.Publisher
	log        logger.ILogger
	now        func() time.Time
}

func NewChatService(providers []string, newLLM factory.Factory, publisher events.Publisher, log logger.ILogger) IChatService {
	return &chatService{
		providers:  providers,
		newLLM:     newLLM,
		sampleRows: 5,
		publisher:  publisher,
		log:        log,
		now:        time.Now,
	}
}

func (s *chatService) Providers() []string {
	return s.providers
}

func (s *chatService) Configure(_ context.Context, state *entity.SessionState, creds llm.Credentials) error {
	creds = llm.Credentials{
		Provider:   strings.TrimSpace(creds.Provider),
		APIKey:     strings.TrimSpace(creds.APIKey),
		Endpoint:   strings.TrimSpace(creds.Endpoint),
		APIVersion: strings.TrimSpace(creds.APIVersion),
		Deployment: strings.TrimSpace(creds.Deployment),
	}
	if !slices.Contains(s.providers, creds.Provider) {
		return fmt.Errorf("%w: %q", llm.ErrUnknownProvider, creds.Provider)
	}
	state.ChatCredentials = creds
	return nil
}

// credentials fills in the default provider for sessions that never
// opened the settings panel.
func (s *chatService) credentials(state *entity.SessionState) llm.Credentials {
	creds := state.ChatCredentials
	if creds.Provider == "" && len(s.providers) > 0 {
		creds.Provider = s.providers[0]
	}
	return creds
}

func (s *chatService) Agent(state *entity.SessionState) (*agent.Agent, error) {
	if state.Frame == nil {
		return nil, ErrNoActiveFrame
	}
	creds := s.credentials(state)
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	provider, err := s.newLLM(creds)
	if err != nil {
		return nil, err
	}
	return agent.New(provider, state.Frame,
		agent.WithMemory(chatMemory(state.ChatHistory)),
		agent.WithSampleRows(s.sampleRows),
	)
}

func (s *chatService) Ask(ctx context.Context, state *entity.SessionState, question string) (AskOutcome, error) {
	// memory is taken before the new question lands in the history
	a, err := s.Agent(state)
	if err != nil {
		return AskOutcome{}, fmt.Errorf("%w: %w", ErrAgentUnavailable, err)
	}
	state.AppendChat(entity.ChatRoleQuestion, question, s.now())

	answer, err := a.Chat(ctx, question)
	if err != nil {
		state.AppendChat(entity.ChatRoleError, constant.ChatErrorMessage, s.now())
		s.log.Warn("chat", "agent failed", map[string]interface{}{
			"session_id": state.Id.String(),
			"error":      err.Error(),
		})
		publish(ctx, s.publisher, s.log, events.New(events.TypeChatFailed, map[string]interface{}{
			"session_id": state.Id.String(),
		}))
		return AskOutcome{Err: err}, nil
	}

	state.AppendChat(entity.ChatRoleAnswer, answer, s.now())
	publish(ctx, s.publisher, s.log, events.New(events.TypeChatAnswered, map[string]interface{}{
		"session_id": state.Id.String(),
		"provider":   s.credentials(state).Provider,
	}))
	return AskOutcome{Answer: answer}, nil
}

func (s *chatService) Clear(ctx context.Context, state *entity.SessionState) {
	state.ClearChat()
	publish(ctx, s.publisher, s.log, events.New(events.TypeChatCleared, map[string]interface{}{
		"session_id": state.Id.String(),
	}))
}

// chatMemory pairs each question with the answer that directly follows it.
// Questions that ended in an error are left out.
func chatMemory(history []entity.ChatRecord) []agent.Turn {
	var turns []agent.Turn
	for i := 0; i+1 < len(history); i++ {
		if history[i].Role == entity.ChatRoleQuestion && history[i+1].Role == entity.ChatRoleAnswer {
			turns = append(turns, agent.Turn{Question: history[i].Content, Answer: history[i+1].Content})
			i++
		}
	}
	return turns
}
