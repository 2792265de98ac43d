package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher sends activity events somewhere. Publishing is best effort:
// callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// ChannelBus publishes events onto an in-process watermill topic.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewChannelBus(pubSub *gochannel.GoChannel, topic string) *ChannelBus {
	return &ChannelBus{pubSub: pubSub, topic: topic}
}

func (b *ChannelBus) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(ToEnvelope(event))
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(b.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", b.topic, err)
	}
	return nil
}
