package entity

import (
	"time"

	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"

	"github.com/google/uuid"
)

type AuthStatus string

const (
	AuthStatusNotAttempted  AuthStatus = "not_attempted"
	AuthStatusFailed        AuthStatus = "failed"
	AuthStatusAuthenticated AuthStatus = "authenticated"
	AuthStatusLocked        AuthStatus = "locked"
)

type ChatRole string

const (
	ChatRoleQuestion ChatRole = "question"
	ChatRoleAnswer   ChatRole = "answer"
	ChatRoleError    ChatRole = "error"
)

type ChatRecord struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is everything the page remembers about one browser session
// between events.
type SessionState struct {
	Id uuid.UUID `json:"id"`

	AuthStatus     AuthStatus `json:"auth_status"`
	Username       string     `json:"username,omitempty"`
	Name           string     `json:"name,omitempty"`
	FailedAttempts int        `json:"failed_attempts"`

	// Frame is the single active frame; nil when no file is loaded.
	Frame    *frame.Frame `json:"frame,omitempty"`
	Encoding string       `json:"encoding,omitempty"`

	ChatCredentials llm.Credentials `json:"chat_credentials"`
	ChatHistory     []ChatRecord    `json:"chat_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionState(id uuid.UUID, now time.Time) *SessionState {
	return &SessionState{
		Id:          id,
		AuthStatus:  AuthStatusNotAttempted,
		ChatHistory: []ChatRecord{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *SessionState) IsAuthenticated() bool {
	return s.AuthStatus == AuthStatusAuthenticated
}

func (s *SessionState) AppendChat(role ChatRole, content string, at time.Time) {
	s.ChatHistory = append(s.ChatHistory, ChatRecord{Role: role, Content: content, CreatedAt: at})
}

func (s *SessionState) ClearChat() {
	s.ChatHistory = []ChatRecord{}
}
