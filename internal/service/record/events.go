package record

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Action describes what happened to a record.
type Action string

const (
	ActionCreated  Action = "created"
	ActionReplaced Action = "replaced"
	ActionDeleted  Action = "deleted"
)

// Event is emitted on the message bus after every successful write.
type Event struct {
	Entity     string    `json:"entity"`
	Action     Action    `json:"action"`
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventKey partitions events so that writes to one record stay ordered.
func EventKey(entity string, id int64) []byte {
	return []byte(fmt.Sprintf("%s-%d", entity, id))
}

func (s *Service[T, P]) publish(ctx context.Context, action Action, id int64) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := Event{
		Entity:     s.desc.Entity,
		Action:     action,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal record event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, EventKey(event.Entity, id), payload); err != nil {
		s.logger.Error("publish record event", zap.String("action", string(action)), zap.Int64("id", id), zap.Error(err))
	}
}
