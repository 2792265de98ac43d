package memory

import (
	"context"
	"testing"
	"time"

	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)

	id := uuid.New()
	_, err := repo.Get(ctx, id)
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)

	state := entity.NewSessionState(id, time.Now())
	state.AppendChat(entity.ChatRoleQuestion, "How many rows?", time.Now())
	require.NoError(t, repo.Save(ctx, state))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, state, got)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)

	id := uuid.New()
	require.NoError(t, repo.Save(ctx, entity.NewSessionState(id, time.Now())))

	time.Sleep(40 * time.Millisecond)
	_, err := repo.Get(ctx, id)
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)
}
