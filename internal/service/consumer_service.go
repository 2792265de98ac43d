package service

import (
	"context"
	"encoding/json"

	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService drains the in-process activity topic into the
// activity log.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	activity  logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, activity logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		activity:  activity,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var env events.Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		cs.activity.Error("activity", "failed to unmarshal event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// malformed payloads would never succeed on redelivery
		msg.Ack()
		return
	}

	details := make(map[string]interface{}, len(env.Data)+1)
	for k, v := range env.Data {
		details[k] = v
	}
	details["occurred_at"] = env.OccurredAt

	cs.activity.Info("activity", env.Type, details)
	msg.Ack()
}
