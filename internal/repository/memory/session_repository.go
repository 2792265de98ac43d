package memory

import (
	"context"
	"time"

	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository keeps sessions for ttl after their last save and
// purges expired ones every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

func (r *SessionRepository) Save(_ context.Context, state *entity.SessionState) error {
	r.cache.Set(state.Id.String(), state, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id uuid.UUID) (*entity.SessionState, error) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*entity.SessionState), nil
	}
	return nil, contract.ErrSessionNotFound
}

func (r *SessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.cache.Delete(id.String())
	return nil
}
