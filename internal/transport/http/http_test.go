package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/app"
	"github.com/Additional-Code/exchange/internal/config"
	httpserver "github.com/Additional-Code/exchange/internal/server/http"
	transporthttp "github.com/Additional-Code/exchange/internal/transport/http"
)

func testConfig() config.Config {
	return config.Config{
		HTTP:      config.HTTP{LegacyNotFound: true},
		Cache:     config.Cache{Driver: "noop"},
		Messaging: config.Messaging{Driver: "noop", Kafka: config.Kafka{Topic: "records.events"}},
		Database: config.Database{
			Driver:      "sqlite",
			WriterDSN:   ":memory:",
			ReaderDSN:   ":memory:",
			AutoMigrate: true,
		},
		Observability: config.Observability{ServiceName: "exchange-test"},
	}
}

func newServer(t *testing.T, cfg config.Config) *echo.Echo {
	t.Helper()

	var e *echo.Echo
	application := fxtest.New(t,
		fx.Supply(cfg),
		fx.Supply(zap.NewNop()),
		app.Platform,
		app.Records,
		app.Bootstrap,
		fx.Provide(httpserver.NewEcho),
		transporthttp.Module,
		fx.Populate(&e),
	)
	application.RequireStart()
	t.Cleanup(application.RequireStop)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) (kind, message string, details map[string]any) {
	t.Helper()
	var payload struct {
		Error struct {
			Kind    string         `json:"kind"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Kind, payload.Error.Message, payload.Error.Details
}

const annJSON = `{"id":1,"first_name":"Ann","last_name":"Lee","age":30,"email":"a@x.com","role":"customer","phone":"123"}`

func TestUserRoundTrip(t *testing.T) {
	e := newServer(t, testConfig())

	rec := do(e, http.MethodPost, "/users", annJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.JSONEq(t, annJSON, rec.Body.String())
}

func TestPostWithoutContentType(t *testing.T) {
	e := newServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/offers", strings.NewReader(`{"id":5,"order_id":1,"executor_id":1}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestOptionalFieldsSerializeAsNull(t *testing.T) {
	e := newServer(t, testConfig())

	rec := do(e, http.MethodPost, "/users", `{"id":2,"first_name":"Пётр","role":"executor","phone":"+7900"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodGet, "/users/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":2,"first_name":"Пётр","last_name":null,"age":null,"email":null,"role":"executor","phone":"+7900"}`,
		rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Пётр")
}

func TestGetMissing(t *testing.T) {
	cases := []struct {
		path    string
		message string
	}{
		{"/users/999", "Пользователь не найден"},
		{"/orders/999", "Заказ не найден"},
		{"/offers/999", "Предложение не найдено"},
	}

	e := newServer(t, testConfig())
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := do(e, http.MethodGet, tc.path, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			kind, message, _ := errorOf(t, rec)
			assert.Equal(t, "not_found", kind)
			assert.Equal(t, tc.message, message)
			assert.Contains(t, rec.Body.String(), tc.message)
		})
	}
}

func TestGetMissingWithoutLegacyStatus(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.LegacyNotFound = false
	e := newServer(t, cfg)

	rec := do(e, http.MethodGet, "/users/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidID(t *testing.T) {
	e := newServer(t, testConfig())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(e, method, "/orders/abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
	}
}

func TestCreateMissingRequiredField(t *testing.T) {
	e := newServer(t, testConfig())

	rec := do(e, http.MethodPost, "/orders", `{"id":1,"name":"Paint","address":"Main st"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	kind, _, details := errorOf(t, rec)
	assert.Equal(t, "bad_request", kind)
	assert.ElementsMatch(t, []any{"description", "price"}, details["fields"])

	rec = do(e, http.MethodGet, "/orders", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateMalformedBody(t *testing.T) {
	e := newServer(t, testConfig())

	rec := do(e, http.MethodPost, "/users", `{"id":1,`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/users", `{"id":"one","first_name":"Ann","role":"r","phone":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/offers", `{"id":4} trailing`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/offers/4", "").Code)
}

func TestCreateDuplicateID(t *testing.T) {
	e := newServer(t, testConfig())

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/users", annJSON).Code)

	rec := do(e, http.MethodPost, "/users", `{"id":1,"first_name":"Bob","role":"executor","phone":"999"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodGet, "/users/1", "")
	assert.JSONEq(t, annJSON, rec.Body.String())
}

func TestCreateDuplicatePhone(t *testing.T) {
	e := newServer(t, testConfig())

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/users", annJSON).Code)

	rec := do(e, http.MethodPost, "/users", `{"id":2,"first_name":"Bob","role":"executor","phone":"123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReplaceOverwritesEveryField(t *testing.T) {
	e := newServer(t, testConfig())

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/users", annJSON).Code)

	rec := do(e, http.MethodPut, "/users/1", `{"id":77,"first_name":"Анна","role":"executor","phone":"456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(e, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"id":1,"first_name":"Анна","last_name":null,"age":null,"email":null,"role":"executor","phone":"456"}`,
		rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/users/77", "").Code)
}

func TestReplaceOrder(t *testing.T) {
	e := newServer(t, testConfig())

	order := `{"id":3,"name":"Paint","description":"Walls","start_date":"01/01/2020","end_date":"02/01/2020","address":"Main st","price":500,"customer_id":1,"executor_id":2}`
	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/orders", order).Code)

	replacement := `{"name":"Paint again","description":"Fence","address":"Side st","price":700}`
	require.Equal(t, http.StatusOK, do(e, http.MethodPut, "/orders/3", replacement).Code)

	rec := do(e, http.MethodGet, "/orders/3", "")
	assert.JSONEq(t,
		`{"id":3,"name":"Paint again","description":"Fence","start_date":null,"end_date":null,"address":"Side st","price":700,"customer_id":null,"executor_id":null}`,
		rec.Body.String())
}

func TestReplaceMissing(t *testing.T) {
	e := newServer(t, testConfig())

	rec := do(e, http.MethodPut, "/offers/9", `{"order_id":1,"executor_id":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, message, _ := errorOf(t, rec)
	assert.Equal(t, "Предложение не найдено", message)
}

func TestReplaceMissingRequiredField(t *testing.T) {
	e := newServer(t, testConfig())

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/users", annJSON).Code)

	rec := do(e, http.MethodPut, "/users/1", `{"first_name":"Ann"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/users/1", "")
	assert.JSONEq(t, annJSON, rec.Body.String())
}

func TestDeleteIsIdempotent(t *testing.T) {
	e := newServer(t, testConfig())

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/offers", `{"id":5,"order_id":1,"executor_id":1}`).Code)

	rec := do(e, http.MethodDelete, "/offers/5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/offers/5", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/offers/5", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/offers/12345", "").Code)
}

func TestListOffers(t *testing.T) {
	e := newServer(t, testConfig())

	offers := []string{
		`{"id":5,"order_id":1,"executor_id":1}`,
		`{"id":6,"order_id":null,"executor_id":2}`,
		`{"id":7}`,
	}
	for _, body := range offers {
		require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/offers", body).Code)
	}

	rec := do(e, http.MethodGet, "/offers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.JSONEq(t, `[
		{"id":5,"order_id":1,"executor_id":1},
		{"id":6,"order_id":null,"executor_id":2},
		{"id":7,"order_id":null,"executor_id":null}
	]`, rec.Body.String())
}

func TestSeededData(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = config.Seed{
		Enabled:    true,
		Dir:        "../../../data",
		UsersFile:  "Users_data.json",
		OrdersFile: "Orders_data.json",
		OffersFile: "Offers_data.json",
	}
	e := newServer(t, cfg)

	for path, count := range map[string]int{"/users": 4, "/orders": 3, "/offers": 4} {
		rec := do(e, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		var items []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		assert.Len(t, items, count, path)
	}

	rec := do(e, http.MethodGet, "/orders/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Встретить тетю на вокзале")
}

func TestHealth(t *testing.T) {
	e := newServer(t, testConfig())

	rec := do(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
