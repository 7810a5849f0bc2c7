package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/exchange/internal/presentation/http/codec"
	"github.com/Additional-Code/exchange/internal/presentation/http/response"
	"github.com/Additional-Code/exchange/pkg/errorbank"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.JSONSerializer = codec.JSONSerializer{}
	rec := httptest.NewRecorder()
	return e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), rec
}

func TestBuildEmpty(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, response.New(c).WithStatus(http.StatusCreated).Build())
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBuildData(t *testing.T) {
	c, rec := newContext()

	require.NoError(t, response.New(c).WithData([]int{}).Build())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, codec.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBuildError(t *testing.T) {
	t.Run("kind status", func(t *testing.T) {
		c, rec := newContext()
		require.NoError(t, response.New(c).WithError(errorbank.NotFound("Заказ не найден")).Build())
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":{"kind":"not_found","message":"Заказ не найден"}}`, rec.Body.String())
	})

	t.Run("status override", func(t *testing.T) {
		c, rec := newContext()
		err := response.New(c).WithStatus(http.StatusBadRequest).WithError(errorbank.NotFound("Заказ не найден")).Build()
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown error", func(t *testing.T) {
		c, rec := newContext()
		require.NoError(t, response.New(c).WithError(errors.New("boom")).Build())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":{"kind":"internal","message":"internal error"}}`, rec.Body.String())
	})
}
