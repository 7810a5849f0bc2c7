package resource

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/exchange/internal/dto"
	"github.com/Additional-Code/exchange/internal/presentation/http/response"
	"github.com/Additional-Code/exchange/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/exchange/transport/http/resource")

// Service is the record service a Handler exposes.
type Service[T any] interface {
	Entity() string
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, rec *T) error
	Replace(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id int64) error
}

// Options tunes wire compatibility of a Handler.
type Options struct {
	// LegacyNotFound answers GET on a missing id with 400 instead of 404.
	LegacyNotFound bool
}

// Handler exposes collection and item routes for one entity type.
type Handler[T any, R any, RP dto.RequestOf[R, T]] struct {
	svc    Service[T]
	render func(*T) any
	opts   Options
}

// NewHandler constructs a Handler rendering records with render.
func NewHandler[T any, R any, RP dto.RequestOf[R, T]](svc Service[T], render func(*T) any, opts Options) *Handler[T, R, RP] {
	return &Handler[T, R, RP]{svc: svc, render: render, opts: opts}
}

// Register binds the collection route and the /:id item route to g.
func (h *Handler[T, R, RP]) Register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.replace)
	g.DELETE("/:id", h.delete)
}

func (h *Handler[T, R, RP]) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := h.start(c, "list")
	defer span.End()

	records, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]any, 0, len(records))
	for i := range records {
		out = append(out, h.render(&records[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler[T, R, RP]) create(c echo.Context) error {
	b := response.New(c)

	req, err := h.decode(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := dto.Validate(req); err != nil {
		return b.WithError(err).Build()
	}

	id := *req.Key()
	ctx, span := h.start(c, "create", attribute.Int64("record.id", id))
	defer span.End()

	if err := h.svc.Create(ctx, req.Entity(id)); err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).Build()
}

func (h *Handler[T, R, RP]) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := h.start(c, "getByID", attribute.Int64("record.id", id))
	defer span.End()

	rec, err := h.svc.Get(ctx, id)
	if err != nil {
		if h.opts.LegacyNotFound && errorbank.IsKind(err, errorbank.KindNotFound) {
			b.WithStatus(http.StatusBadRequest)
		}
		return b.WithError(err).Build()
	}
	return b.WithData(h.render(rec)).Build()
}

func (h *Handler[T, R, RP]) replace(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	req, err := h.decode(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	req.SetKey(id)
	if err := dto.Validate(req); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := h.start(c, "replace", attribute.Int64("record.id", id))
	defer span.End()

	if err := h.svc.Replace(ctx, req.Entity(id)); err != nil {
		return b.WithError(err).Build()
	}
	return b.Build()
}

func (h *Handler[T, R, RP]) delete(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := h.start(c, "delete", attribute.Int64("record.id", id))
	defer span.End()

	// deleting an unknown id is not an error.
	if err := h.svc.Delete(ctx, id); err != nil && !errorbank.IsKind(err, errorbank.KindNotFound) {
		return b.WithError(err).Build()
	}
	return b.Build()
}

func (h *Handler[T, R, RP]) decode(c echo.Context) (RP, error) {
	req := RP(new(R))
	if err := c.Echo().JSONSerializer.Deserialize(c, req); err != nil {
		return nil, errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}
	return req, nil
}

func (h *Handler[T, R, RP]) start(c echo.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("record.entity", h.svc.Entity()))
	return httpTracer.Start(c.Request().Context(), h.svc.Entity()+"s."+op, trace.WithAttributes(attrs...))
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}
