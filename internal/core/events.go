package core

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"campustrace-backend-go/internal/models"
	"campustrace-backend-go/pkg/messagequeue"
)

// eventPublisher serialises item events onto a message queue.
type eventPublisher struct {
	mq    messagequeue.MessageQueue
	queue string
	log   *zap.Logger
}

// NewEventPublisher creates an ItemEvents backed by mq. Publish failures are
// logged and swallowed so they never fail the request that caused them.
func NewEventPublisher(mq messagequeue.MessageQueue, queue string, log *zap.Logger) ItemEvents {
	return &eventPublisher{mq: mq, queue: queue, log: log}
}

func (p *eventPublisher) Publish(ctx context.Context, event models.ItemEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to encode item event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	if err := p.mq.Publish(ctx, p.queue, body); err != nil {
		p.log.Warn("Failed to publish item event",
			zap.String("type", event.Type),
			zap.String("itemID", event.ItemID),
			zap.Error(err))
	}
}
