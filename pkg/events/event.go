package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	TypeUserLogin       = "USER_LOGIN"
	TypeUserLoginFailed = "USER_LOGIN_FAILED"
	TypeUserLocked      = "USER_LOCKED"
	TypeUserLogout      = "USER_LOGOUT"
	TypeDatasetUploaded = "DATASET_UPLOADED"
	TypeDatasetRejected = "DATASET_REJECTED"
	TypeDatasetCleared  = "DATASET_CLEARED"
	TypeChatAnswered    = "CHAT_ANSWERED"
	TypeChatFailed      = "CHAT_FAILED"
	TypeChatCleared     = "CHAT_CLEARED"
)

// BaseEvent is the only Event implementation the page emits.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Envelope is the wire form of an event on every transport.
type Envelope struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func ToEnvelope(e Event) Envelope {
	return Envelope{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()}
}
