package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/cache"
	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/entity"
	"github.com/Additional-Code/exchange/internal/messaging"
	"github.com/Additional-Code/exchange/internal/repository"
	"github.com/Additional-Code/exchange/pkg/errorbank"
)

var (
	serviceTracer = otel.Tracer("github.com/Additional-Code/exchange/service/record")
	serviceMeter  = otel.Meter("github.com/Additional-Code/exchange/service/record")
)

// Store is the persistence contract the service relies on.
type Store[T any, P entity.Model[T]] interface {
	Insert(ctx context.Context, rec P) error
	Get(ctx context.Context, id int64) (P, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, rec P) error
	Delete(ctx context.Context, id int64) error
}

// Descriptor names an entity type and its user-facing messages.
type Descriptor struct {
	Entity          string
	NotFoundMessage string
}

// Service encapsulates business logic shared by every entity type.
type Service[T any, P entity.Model[T]] struct {
	desc      Descriptor
	store     Store[T, P]
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
	mutations metric.Int64Counter
	gens      generations
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
}

// Params defines the shared dependencies for constructing a Service.
type Params struct {
	fx.In

	Cache     cache.Store
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// New wires a Service for one entity type.
func New[T any, P entity.Model[T]](p Params, store Store[T, P], desc Descriptor) *Service[T, P] {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("entity", desc.Entity))

	var mutations metric.Int64Counter = noop.Int64Counter{}
	if counter, err := serviceMeter.Int64Counter("records.mutations",
		metric.WithDescription("Number of successful record writes."),
	); err != nil {
		logger.Warn("mutation counter unavailable", zap.Error(err))
	} else {
		mutations = counter
	}

	return &Service[T, P]{
		desc:      desc,
		store:     store,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
		},
		mutations: mutations,
	}
}

// Entity returns the entity name served by this service.
func (s *Service[T, P]) Entity() string { return s.desc.Entity }

// List returns all records.
func (s *Service[T, P]) List(ctx context.Context) ([]T, error) {
	ctx, span := serviceTracer.Start(ctx, s.spanName("List"))
	defer span.End()

	records, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal(fmt.Sprintf("failed to list %ss", s.desc.Entity), errorbank.WithCause(err))
	}
	return records, nil
}

// Get retrieves a record by id, consulting cache when available.
func (s *Service[T, P]) Get(ctx context.Context, id int64) (P, error) {
	ctx, span := s.start(ctx, "Get", id)
	defer span.End()

	if rec, err := s.getFromCache(ctx, id); err == nil {
		return rec, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	gen := s.gens.current(id)
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.translate(span, "load", id, err)
	}

	// a write that landed after the read owns the cache entry.
	s.gens.fillIfCurrent(id, gen, func() {
		if err := s.storeInCache(ctx, rec); err != nil {
			s.logger.Warn("cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	})

	return rec, nil
}

// Create persists a new record. Ids are supplied by the caller.
func (s *Service[T, P]) Create(ctx context.Context, rec P) error {
	if rec == nil {
		return errorbank.BadRequest(s.desc.Entity + " payload is required")
	}
	id := rec.PrimaryKey()
	ctx, span := s.start(ctx, "Create", id)
	defer span.End()

	if err := s.store.Insert(ctx, rec); err != nil {
		return s.translate(span, "create", id, err)
	}

	s.evict(ctx, id)
	s.recordMutation(ctx, ActionCreated, id)
	return nil
}

// Replace overwrites every field of an existing record.
func (s *Service[T, P]) Replace(ctx context.Context, rec P) error {
	if rec == nil {
		return errorbank.BadRequest(s.desc.Entity + " payload is required")
	}
	id := rec.PrimaryKey()
	ctx, span := s.start(ctx, "Replace", id)
	defer span.End()

	if err := s.store.Update(ctx, rec); err != nil {
		return s.translate(span, "replace", id, err)
	}

	s.evict(ctx, id)
	s.recordMutation(ctx, ActionReplaced, id)
	return nil
}

// Delete removes a record. A missing record yields a not found error.
func (s *Service[T, P]) Delete(ctx context.Context, id int64) error {
	ctx, span := s.start(ctx, "Delete", id)
	defer span.End()

	err := s.store.Delete(ctx, id)
	s.evict(ctx, id)
	if err != nil {
		return s.translate(span, "delete", id, err)
	}

	s.recordMutation(ctx, ActionDeleted, id)
	return nil
}

func (s *Service[T, P]) translate(span trace.Span, op string, id int64, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorbank.NotFound(s.desc.NotFoundMessage, errorbank.WithDetail("id", id))
	case errors.Is(err, repository.ErrDuplicateID):
		return errorbank.Conflict(fmt.Sprintf("%s with id %d already exists", s.desc.Entity, id),
			errorbank.WithDetail("id", id))
	case errors.Is(err, repository.ErrConflict):
		return errorbank.Conflict(fmt.Sprintf("%s violates a unique constraint", s.desc.Entity),
			errorbank.WithCause(err))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "repository error")
	return errorbank.Internal(fmt.Sprintf("failed to %s %s", op, s.desc.Entity), errorbank.WithCause(err))
}

func (s *Service[T, P]) recordMutation(ctx context.Context, action Action, id int64) {
	s.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", s.desc.Entity),
		attribute.String("action", string(action)),
	))
	s.publish(ctx, action, id)
}

func (s *Service[T, P]) start(ctx context.Context, op string, id int64) (context.Context, trace.Span) {
	return serviceTracer.Start(ctx, s.spanName(op), trace.WithAttributes(
		attribute.String("record.entity", s.desc.Entity),
		attribute.Int64("record.id", id),
	))
}

func (s *Service[T, P]) spanName(op string) string {
	return strings.ToUpper(s.desc.Entity[:1]) + s.desc.Entity[1:] + "Service." + op
}

func (s *Service[T, P]) getFromCache(ctx context.Context, id int64) (P, error) {
	rec := P(new(T))
	if err := cache.GetJSON(ctx, s.cache, cache.RecordKey(s.desc.Entity, id), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service[T, P]) storeInCache(ctx context.Context, rec P) error {
	return cache.SetJSON(ctx, s.cache, cache.RecordKey(s.desc.Entity, rec.PrimaryKey()), rec, s.cacheTTL)
}

// evict drops the cached record and invalidates reads that started before the write.
func (s *Service[T, P]) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	s.gens.bump(id, func() {
		if err := s.cache.Delete(ctx, cache.RecordKey(s.desc.Entity, id)); err != nil {
			s.logger.Warn("cache eviction failed", zap.Int64("id", id), zap.Error(err))
		}
	})
}
