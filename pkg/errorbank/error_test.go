package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("x").StatusCode())
	assert.Equal(t, http.StatusNotFound, NotFound("x").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal("x").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, New("teapot", "x").StatusCode())

	var nilErr *AppError
	assert.Equal(t, http.StatusInternalServerError, nilErr.StatusCode())
}

func TestDetailsAndCause(t *testing.T) {
	cause := errors.New("driver exploded")
	err := NotFound("Заказ не найден", WithDetail("id", int64(9)), WithCause(cause))

	assert.Equal(t, "Заказ не найден", err.Message())
	assert.Equal(t, map[string]any{"id": int64(9)}, err.Details())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Заказ не найден: driver exploded", err.Error())
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "conflict", Conflict("").Message())
}

func TestFromAndIsKind(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", BadRequest("invalid id"))

	assert.Equal(t, KindBadRequest, From(wrapped).Kind())
	assert.True(t, IsKind(wrapped, KindBadRequest))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))

	plain := From(errors.New("plain"))
	assert.Equal(t, KindInternal, plain.Kind())
	assert.Equal(t, "internal error", plain.Message())
	assert.Nil(t, From(nil))
}
