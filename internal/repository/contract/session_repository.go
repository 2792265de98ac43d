package contract

import (
	"context"
	"errors"

	"data-explorer-be/internal/entity"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.SessionState, error)
	Save(ctx context.Context, state *entity.SessionState) error
	Delete(ctx context.Context, id uuid.UUID) error
}
