package service

import (
	"context"
	"errors"

	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/pkg/events"
)

var (
	ErrNotAuthenticated = errors.New("login required")
	ErrNoActiveFrame    = errors.New("no file has been uploaded")
	ErrFeatureDisabled  = errors.New("feature is not enabled on this page")
	ErrInvalidEncoding  = errors.New("encoding is not one of the offered options")
	ErrAgentUnavailable = errors.New("chat agent is not available")
)

// publish is best effort: a failed publish is logged and never fails the event.
func publish(ctx context.Context, pub events.Publisher, log logger.ILogger, event events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Warn("events", "failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
