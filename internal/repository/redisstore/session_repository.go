package redisstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
)

const keyPrefix = "explorer:session:"

// SessionRepository stores session state as JSON so several server
// instances can share sessions. The chat API key never reaches Redis in
// clear text: it is sealed with a key derived from the session secret.
type SessionRepository struct {
	rdb  *redis.Client
	ttl  time.Duration
	aead cipher.AEAD
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

// storedSession is the Redis document.
type storedSession struct {
	*entity.SessionState
	SealedAPIKey string `json:"sealed_api_key,omitempty"`
}

// NewSessionRepository needs the same secret on every instance sharing
// the Redis database.
func NewSessionRepository(rdb *redis.Client, ttl time.Duration, secret string) (*SessionRepository, error) {
	if secret == "" {
		return nil, errors.New("redis session store needs SESSION_SECRET")
	}
	key := blake3.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("session cipher: %w", err)
	}
	return &SessionRepository{rdb: rdb, ttl: ttl, aead: aead}, nil
}

func sessionKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*entity.SessionState, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contract.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	return r.decode(data)
}

func (r *SessionRepository) Save(ctx context.Context, state *entity.SessionState) error {
	data, err := r.encode(state)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(state.Id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) encode(state *entity.SessionState) ([]byte, error) {
	clean := *state
	clean.ChatCredentials.APIKey = ""
	doc := storedSession{SessionState: &clean}

	if key := state.ChatCredentials.APIKey; key != "" {
		nonce := make([]byte, r.aead.NonceSize(), r.aead.NonceSize()+len(key)+r.aead.Overhead())
		if _, err := rand.Read(nonce); err != nil {
			return nil, fmt.Errorf("seal api key: %w", err)
		}
		sealed := r.aead.Seal(nonce, nonce, []byte(key), state.Id[:])
		doc.SealedAPIKey = base64.StdEncoding.EncodeToString(sealed)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func (r *SessionRepository) decode(data []byte) (*entity.SessionState, error) {
	doc := storedSession{SessionState: &entity.SessionState{}}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if doc.SealedAPIKey == "" {
		return doc.SessionState, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(doc.SealedAPIKey)
	if err != nil || len(sealed) < r.aead.NonceSize() {
		return nil, errors.New("decode session: malformed api key")
	}
	nonce, ciphertext := sealed[:r.aead.NonceSize()], sealed[r.aead.NonceSize():]
	key, err := r.aead.Open(nil, nonce, ciphertext, doc.Id[:])
	if err != nil {
		return nil, fmt.Errorf("decode session: open api key: %w", err)
	}
	doc.ChatCredentials.APIKey = string(key)
	return doc.SessionState, nil
}
