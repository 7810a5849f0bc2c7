package dto_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/exchange/internal/dto"
	"github.com/Additional-Code/exchange/internal/entity"
	"github.com/Additional-Code/exchange/pkg/errorbank"
)

func TestValidateReportsMissingFields(t *testing.T) {
	var req dto.UserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"first_name":"Ann"}`), &req))

	err := dto.Validate(&req)
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.ElementsMatch(t, []string{"role", "phone"}, appErr.Details()["fields"])
}

func TestValidateAcceptsZeroValues(t *testing.T) {
	var req dto.OrderRequest
	body := `{"id":0,"name":"","description":"","address":"","price":0}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.NoError(t, dto.Validate(&req))
}

func TestValidateNullCountsAsMissing(t *testing.T) {
	var req dto.OfferRequest
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"order_id":1}`), &req))

	err := dto.Validate(&req)
	require.Error(t, err)
	assert.Equal(t, []string{"id"}, errorbank.From(err).Details()["fields"])
}

func TestUserResponseKeepsAbsentFields(t *testing.T) {
	u := &entity.User{ID: 7, FirstName: "Иван", Role: "executor", Phone: "+7900"}

	raw, err := json.Marshal(dto.NewUserResponse(u))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 7)
	assert.Contains(t, fields, "email")
	assert.Nil(t, fields["email"])
	assert.Equal(t, "Иван", fields["first_name"])
}

func TestOrderRequestEntity(t *testing.T) {
	var req dto.OrderRequest
	body := `{"id":3,"name":"Paint","description":"Walls","address":"Main st","price":500,"customer_id":1}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, dto.Validate(&req))

	order := req.Entity(42)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, int64(500), order.Price)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, int64(1), *order.CustomerID)
	assert.Nil(t, order.ExecutorID)
	assert.Nil(t, order.StartDate)
}
