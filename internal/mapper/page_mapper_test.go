package mapper

import (
	"testing"
	"time"

	"data-explorer-be/internal/constant"
	"data-explorer-be/internal/entity"
	"data-explorer-be/pkg/frame"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageMapper_AuthView(t *testing.T) {
	m := NewPageMapper(3)
	state := entity.NewSessionState(uuid.New(), time.Now())

	tests := []struct {
		name     string
		status   entity.AuthStatus
		failed   int
		message  string
		attempts int
		logout   bool
	}{
		{name: "neutral", status: entity.AuthStatusNotAttempted, message: constant.AuthPromptMessage, attempts: 3},
		{name: "failed", status: entity.AuthStatusFailed, failed: 1, message: constant.AuthFailedMessage, attempts: 2},
		{name: "locked", status: entity.AuthStatusLocked, failed: 3, message: constant.AuthLockedMessage, attempts: 0},
		{name: "authenticated", status: entity.AuthStatusAuthenticated, message: "Welcome *John Smith*", attempts: 3, logout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state.AuthStatus = tt.status
			state.FailedAttempts = tt.failed
			state.Name = "John Smith"

			v := m.AuthView(state)
			assert.Equal(t, tt.message, v.Message)
			assert.Equal(t, tt.attempts, v.AttemptsLeft)
			assert.Equal(t, tt.logout, v.ShowLogout)
		})
	}
}

func TestPageMapper_DatasetView(t *testing.T) {
	m := NewPageMapper(3)
	assert.Nil(t, m.DatasetView(nil))

	f, err := frame.ParseCSV("t.csv", []byte("a,b\n1,2\n3,4\n"), "utf-8")
	require.NoError(t, err)

	v := m.DatasetView(f)
	assert.Equal(t, 2, v.Rows)
	assert.Equal(t, 2, v.Columns)
	assert.Equal(t, "csv", v.Format)
}

func TestPageMapper_ChatHistory(t *testing.T) {
	m := NewPageMapper(3)
	assert.NotNil(t, m.ChatHistory(nil))

	out := m.ChatHistory([]entity.ChatRecord{{Role: entity.ChatRoleQuestion, Content: "q"}})
	require.Len(t, out, 1)
	assert.Equal(t, "question", out[0].Role)
}
