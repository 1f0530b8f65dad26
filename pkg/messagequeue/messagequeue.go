package messagequeue

import (
	"context"

	"go.uber.org/zap"
)

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	// Consume delivers messages to handler until ctx is cancelled or the
	// delivery channel closes. A handler error nacks the message without requeue.
	Consume(ctx context.Context, queueName string, handler func(body []byte) error) error
	Close() error
}

// LogQueue is the MessageQueue used when no broker is configured: published
// messages are logged at debug level and dropped, Consume blocks until ctx ends.
type LogQueue struct {
	log *zap.Logger
}

// NewLogQueue creates a LogQueue.
func NewLogQueue(log *zap.Logger) *LogQueue {
	return &LogQueue{log: log}
}

func (q *LogQueue) Publish(_ context.Context, queueName string, body []byte) error {
	q.log.Debug("Message queue disabled, dropping message",
		zap.String("queue", queueName), zap.ByteString("body", body))
	return nil
}

func (q *LogQueue) Consume(ctx context.Context, queueName string, _ func(body []byte) error) error {
	q.log.Warn("Message queue disabled, consumer idle", zap.String("queue", queueName))
	<-ctx.Done()
	return nil
}

func (q *LogQueue) Close() error { return nil }
