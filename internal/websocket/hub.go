package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"data-explorer-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "explorer:chat_events"

// Hub tracks the open chat sockets of every session. A session can have
// several (one per browser tab); all of them see the same chat updates.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	// done is closed when Run returns; pumps stop waiting on the hub then.
	done     chan struct{}
	doneOnce sync.Once

	mu sync.RWMutex

	// Redis relays updates to sockets held by other instances. Optional.
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run serves register/unregister requests until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Debug("websocket", "client registered", map[string]interface{}{"session_id": client.SessionID.String()})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// join and leave hand a client to Run without blocking past its shutdown.
// join reports false when the hub has already stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
	}
}

// Connections reports how many sockets a session has on this instance.
func (h *Hub) Connections(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Send delivers a message to every socket of the session, here and on
// other instances.
func (h *Hub) Send(sessionID uuid.UUID, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("websocket", "failed to marshal message", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliver(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{TargetSessionID: sessionID.String(), Message: data, Origin: h.instanceID})
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("websocket", "failed to relay message", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver holds the read lock across the sends: remove closes Send under
// the write lock, so no send can hit a closed channel.
func (h *Hub) deliver(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("websocket", "send buffer full, dropping client", map[string]interface{}{"session_id": sessionID.String()})
			go h.leave(client)
		}
	}
}

type clusterMessage struct {
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
	Origin          string          `json:"origin,omitempty"`
}

// subscribeToRedis delivers relayed messages to local sockets. Every
// instance receives every message and keeps the ones it has sockets for;
// its own messages were already delivered by Send.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("websocket", "bad relayed message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		sessionID, err := uuid.Parse(payload.TargetSessionID)
		if err != nil {
			continue
		}
		h.deliver(sessionID, payload.Message)
	}
}
