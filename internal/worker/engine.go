package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/messaging"
)

const maxBackoff = 30 * time.Second

var workerMeter = otel.Meter("github.com/Additional-Code/exchange/worker")

// HandlerRegistration binds a topic to the handler consuming it.
type HandlerRegistration struct {
	Topic   string
	Handler messaging.Handler
}

// Params collects dependencies via Fx.
type Params struct {
	fx.In

	Client        messaging.Client
	Logger        *zap.Logger
	Config        config.Config
	Registrations []HandlerRegistration `group:"worker.handlers"`
}

// Engine fans record events out to a pool of consumers.
type Engine struct {
	client    messaging.Client
	logger    *zap.Logger
	enabled   bool
	workers   int
	handlers  map[string]messaging.Handler
	processed metric.Int64Counter

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine constructs the worker Engine. Later registrations for a topic win.
func NewEngine(p Params) *Engine {
	handlers := make(map[string]messaging.Handler, len(p.Registrations))
	for _, r := range p.Registrations {
		if r.Topic == "" || r.Handler == nil {
			continue
		}
		handlers[r.Topic] = r.Handler
	}

	var processed metric.Int64Counter = noop.Int64Counter{}
	if counter, err := workerMeter.Int64Counter("worker.messages",
		metric.WithDescription("Record events handled by the worker engine."),
	); err == nil {
		processed = counter
	}

	workers := p.Config.Messaging.Workers.Concurrency
	if workers <= 0 {
		workers = 1
	}

	return &Engine{
		client:    p.Client,
		logger:    p.Logger,
		enabled:   p.Config.Messaging.Enabled && p.Config.Messaging.Workers.Enabled,
		workers:   workers,
		handlers:  handlers,
		processed: processed,
	}
}

// Module runs the engine as a standalone consumer process.
var Module = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(register),
)

// EmbeddedModule runs the engine inside the API process. Only the in-process
// bus is consumed there; a broker is left to the dedicated worker command.
var EmbeddedModule = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, engine *Engine) {
		if cfg.Messaging.Driver == "memory" {
			register(lc, engine)
		}
	}),
)

func register(lc fx.Lifecycle, engine *Engine) {
	lc.Append(fx.Hook{
		OnStart: engine.Start,
		OnStop:  engine.Stop,
	})
}

// Start launches the consumers. It returns immediately.
func (e *Engine) Start(context.Context) error {
	if !e.enabled {
		e.logger.Info("worker engine disabled")
		return nil
	}
	if len(e.handlers) == 0 {
		e.logger.Info("worker engine has no handlers; skipping")
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	for i := 0; i < e.workers; i++ {
		e.wg.Add(1)
		go func(workerID int) {
			defer e.wg.Done()
			e.consumeLoop(runCtx, workerID)
		}(i)
	}

	e.logger.Info("worker engine started", zap.Int("workers", e.workers), zap.String("topic", e.client.Topic()))
	return nil
}

// Stop cancels the consumers and waits for in-flight messages.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel == nil {
		return nil
	}
	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		e.logger.Info("worker engine stopped")
		return nil
	}
}

func (e *Engine) consumeLoop(ctx context.Context, workerID int) {
	backoff := time.Second
	for ctx.Err() == nil {
		err := e.client.Consume(ctx, func(msgCtx context.Context, msg messaging.Message) error {
			return e.dispatch(msgCtx, workerID, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}

		e.logger.Error("consume loop error", zap.Int("worker", workerID), zap.Error(err))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (e *Engine) dispatch(ctx context.Context, workerID int, msg messaging.Message) (err error) {
	handler, ok := e.handlers[msg.Topic]
	if !ok {
		e.logger.Warn("no handler for topic", zap.String("topic", msg.Topic))
		e.count(ctx, msg.Topic, "unhandled")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		e.count(ctx, msg.Topic, outcome)
	}()

	e.logger.Debug("processing message", zap.String("topic", msg.Topic), zap.Int("worker", workerID), zap.Int64("offset", msg.Offset))
	return handler(ctx, msg)
}

func (e *Engine) count(ctx context.Context, topic, outcome string) {
	e.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("outcome", outcome),
	))
}
