package record

import (
	"context"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/messaging"
	recordsvc "github.com/Additional-Code/exchange/internal/service/record"
	"github.com/Additional-Code/exchange/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/exchange/worker/record")

// Module registers record event worker handlers.
var Module = fx.Module("worker_record",
	fx.Provide(
		fx.Annotate(
			NewEventHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewEventHandler sets up a worker handler that logs record writes.
func NewEventHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handleEvent(logger),
	}
}

func handleEvent(logger *zap.Logger) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		_, span := workerTracer.Start(ctx, "worker.records.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event recordsvc.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode record event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(
			attribute.String("record.entity", event.Entity),
			attribute.Int64("record.id", event.ID),
		)
		logger.Info("record event processed",
			zap.String("entity", event.Entity),
			zap.String("action", string(event.Action)),
			zap.Int64("id", event.ID),
			zap.Time("occurred_at", event.OccurredAt),
		)

		return nil
	}
}
