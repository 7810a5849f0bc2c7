package messaging

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultMemoryCapacity = 1024

// ErrQueueFull is returned when the in-process queue has no room left.
var ErrQueueFull = errors.New("messaging: queue full")

// MemoryClient is a bounded in-process bus. Publish never blocks.
type MemoryClient struct {
	topic  string
	queue  chan Message
	offset atomic.Int64
	logger *zap.Logger
}

// NewMemoryClient builds a MemoryClient holding up to capacity pending messages.
func NewMemoryClient(topic string, capacity int, logger *zap.Logger) *MemoryClient {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryClient{
		topic:  topic,
		queue:  make(chan Message, capacity),
		logger: logger,
	}
}

func (m *MemoryClient) Publish(ctx context.Context, key []byte, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := Message{
		Topic:   m.topic,
		Key:     append([]byte(nil), key...),
		Value:   append([]byte(nil), value...),
		Headers: map[string]string{contentTypeHeader: "application/json"},
		Offset:  m.offset.Add(1) - 1,
		Time:    time.Now().UTC(),
	}
	select {
	case m.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume delivers messages to handler until ctx ends. Failed messages are dropped.
func (m *MemoryClient) Consume(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-m.queue:
			if err := handler(ctx, msg); err != nil {
				m.logger.Error("record event handler failed", zap.Error(err), zap.Int64("offset", msg.Offset))
			}
		}
	}
}

func (m *MemoryClient) Topic() string { return m.topic }

// Pending reports how many messages wait for a consumer.
func (m *MemoryClient) Pending() int { return len(m.queue) }
