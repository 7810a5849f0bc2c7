package codec

import (
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

// MIMEApplicationJSON is the content type written with every JSON body.
const MIMEApplicationJSON = "application/json; charset=utf-8"

// JSONSerializer encodes UTF-8 JSON without escaping non-ASCII or HTML characters.
type JSONSerializer struct{}

var _ echo.JSONSerializer = JSONSerializer{}

// Serialize writes i to the response.
func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize reads the request body into i. An empty body leaves i untouched;
// anything after the first JSON value is rejected.
func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	err := dec.Decode(i)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body").SetInternal(err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON value")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "malformed JSON body").SetInternal(err)
	}
	return nil
}
