package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

type fakeAuthenticator struct {
	user model.User
	err  error

	gotKey string
}

func (f *fakeAuthenticator) AuthenticateToken(_ context.Context, key string) (model.User, error) {
	f.gotKey = key
	if f.err != nil {
		return model.User{}, f.err
	}
	return f.user, nil
}

func newAuthContext(header string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireAuthSetsUser(t *testing.T) {
	fake := &fakeAuthenticator{user: model.User{ID: 7, Email: "a@example.com"}}
	auth := NewAuthMiddleware(&server.Server{}, fake)

	c := newAuthContext("Token abc123")

	called := false
	err := auth.RequireAuth(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "abc123", fake.gotKey)

	user, ok := CurrentUser(c)
	require.True(t, ok)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "7", GetUserID(c))
}

func TestRequireAuthMissingHeader(t *testing.T) {
	auth := NewAuthMiddleware(&server.Server{}, &fakeAuthenticator{})

	err := auth.RequireAuth(func(c echo.Context) error {
		t.Fatal("handler should not run")
		return nil
	})(newAuthContext(""))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRequireAuthWrongScheme(t *testing.T) {
	auth := NewAuthMiddleware(&server.Server{}, &fakeAuthenticator{})

	err := auth.RequireAuth(func(c echo.Context) error {
		return nil
	})(newAuthContext("Bearer abc123"))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	fake := &fakeAuthenticator{err: errs.NewUnauthorizedError("Invalid authentication token", true)}
	auth := NewAuthMiddleware(&server.Server{}, fake)

	err := auth.RequireAuth(func(c echo.Context) error {
		return nil
	})(newAuthContext("Token expired"))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
}

func TestExtractTokenKeyCaseInsensitiveScheme(t *testing.T) {
	key, err := extractTokenKey("token abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", key)
}
