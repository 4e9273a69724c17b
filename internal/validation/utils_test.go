package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffihq/recipe-api/internal/errs"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=10"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

func newJSONContext(t *testing.T, body string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := newJSONContext(t, `{"email":"a@example.com","name":"Alice"}`)

	payload := &samplePayload{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "a@example.com", payload.Email)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	c := newJSONContext(t, `{"email":`)

	err := BindAndValidate(c, &samplePayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Malformed request payload", httpErr.Message)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	c := newJSONContext(t, `{"email":"not-an-email","name":""}`)

	err := BindAndValidate(c, &samplePayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Len(t, httpErr.Errors, 2)

	byField := map[string]string{}
	for _, fe := range httpErr.Errors {
		byField[fe.Field] = fe.Error
	}
	assert.Equal(t, "must be a valid email address", byField["email"])
	assert.Equal(t, "is required", byField["name"])
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	c := newJSONContext(t, `{}`)

	err := BindAndValidate(c, &customPayload{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "tags", httpErr.Errors[0].Field)
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return CustomValidationErrors{{Field: "tags", Message: "must be a comma-separated list of IDs"}}
}

func TestIsValidIDList(t *testing.T) {
	assert.True(t, IsValidIDList("1"))
	assert.True(t, IsValidIDList("1,2,3"))
	assert.False(t, IsValidIDList(""))
	assert.False(t, IsValidIDList("1,2,"))
	assert.False(t, IsValidIDList("1,a"))
	assert.False(t, IsValidIDList("1, 2"))
}
