package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/messaging"
)

func enabledConfig() config.Config {
	return config.Config{Messaging: config.Messaging{
		Enabled: true,
		Driver:  "memory",
		Workers: config.Worker{Enabled: true, Concurrency: 2},
	}}
}

func TestEngineDeliversToRegisteredTopic(t *testing.T) {
	bus := messaging.NewMemoryClient("records.events", 8, nil)
	seen := make(chan string, 4)

	engine := NewEngine(Params{
		Client: bus,
		Logger: zap.NewNop(),
		Config: enabledConfig(),
		Registrations: []HandlerRegistration{{
			Topic: "records.events",
			Handler: func(_ context.Context, msg messaging.Message) error {
				seen <- string(msg.Key)
				return nil
			},
		}},
	})

	require.NoError(t, engine.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), []byte("offer-5"), []byte(`{}`)))

	select {
	case key := <-seen:
		assert.Equal(t, "offer-5", key)
	case <-time.After(5 * time.Second):
		t.Fatal("message was not delivered")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, engine.Stop(ctx))
}

func TestEngineDisabled(t *testing.T) {
	cfg := enabledConfig()
	cfg.Messaging.Workers.Enabled = false

	engine := NewEngine(Params{
		Client: messaging.NewMemoryClient("t", 1, nil),
		Logger: zap.NewNop(),
		Config: cfg,
		Registrations: []HandlerRegistration{{
			Topic:   "t",
			Handler: func(context.Context, messaging.Message) error { return nil },
		}},
	})

	require.NoError(t, engine.Start(context.Background()))
	assert.Nil(t, engine.cancel)
	assert.NoError(t, engine.Stop(context.Background()))
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	engine := NewEngine(Params{
		Client: messaging.NewMemoryClient("t", 1, nil),
		Logger: zap.NewNop(),
		Config: enabledConfig(),
		Registrations: []HandlerRegistration{
			{Topic: "t", Handler: func(context.Context, messaging.Message) error { panic("boom") }},
			{Topic: "", Handler: func(context.Context, messaging.Message) error { return nil }},
		},
	})
	assert.Len(t, engine.handlers, 1)

	err := engine.dispatch(context.Background(), 0, messaging.Message{Topic: "t"})
	assert.ErrorContains(t, err, "boom")

	assert.NoError(t, engine.dispatch(context.Background(), 0, messaging.Message{Topic: "other"}))
}
