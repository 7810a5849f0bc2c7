package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/exchange/internal/presentation/http/codec"
	"github.com/Additional-Code/exchange/pkg/errorbank"
)

// Builder helps construct consistent HTTP responses.
// Success payloads are written as-is; a response without data has an empty body.
type Builder struct {
	ctx     echo.Context
	status  int
	data    any
	hasData bool
	err     error
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithData attaches a success payload.
func (b *Builder) WithData(data any) *Builder {
	b.data = data
	b.hasData = true
	return b
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// Build finalises and emits the HTTP response.
func (b *Builder) Build() error {
	if b.err != nil {
		return b.buildError()
	}
	return b.buildSuccess()
}

func (b *Builder) buildSuccess() error {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	if !b.hasData {
		return b.ctx.NoContent(b.status)
	}
	return b.json(b.status, b.data)
}

func (b *Builder) buildError() error {
	appErr := errorbank.From(b.err)
	status := b.status
	if status < 400 {
		status = appErr.StatusCode()
	}
	payload := struct {
		Error struct {
			Kind    string         `json:"kind"`
			Message string         `json:"message"`
			Details map[string]any `json:"details,omitempty"`
		} `json:"error"`
	}{}
	payload.Error.Kind = string(appErr.Kind())
	payload.Error.Message = appErr.Message()
	payload.Error.Details = appErr.Details()

	return b.json(status, payload)
}

func (b *Builder) json(status int, payload any) error {
	b.ctx.Response().Header().Set(echo.HeaderContentType, codec.MIMEApplicationJSON)
	return b.ctx.JSON(status, payload)
}
