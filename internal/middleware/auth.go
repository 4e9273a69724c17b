package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

const (
	// UserKey stores the authenticated user in Echo context.
	UserKey = "user"

	// UserIDKey stores the authenticated user's ID as a string for log
	// correlation.
	UserIDKey = "user_id"

	authScheme = "Token"
)

// TokenAuthenticator resolves a token key to its user. Implemented by
// the user service; kept as an interface so the middleware can be
// tested without a database.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, key string) (model.User, error)
}

// AuthMiddleware enforces token authentication on protected routes.
type AuthMiddleware struct {
	server        *server.Server
	authenticator TokenAuthenticator
}

func NewAuthMiddleware(s *server.Server, authenticator TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server:        s,
		authenticator: authenticator,
	}
}

// RequireAuth parses "Authorization: Token <key>", resolves the key to
// a user, and stores the user in Echo context. Requests without a
// valid token get a 401.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key, err := extractTokenKey(c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		user, err := auth.authenticator.AuthenticateToken(c.Request().Context(), key)
		if err != nil {
			return err
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, strconv.FormatInt(user.ID, 10))

		return next(c)
	}
}

func extractTokenKey(header string) (string, error) {
	if header == "" {
		return "", errs.NewUnauthorizedError("Authentication credentials were not provided", true)
	}

	scheme, key, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, authScheme) || key == "" {
		return "", errs.NewUnauthorizedError("Invalid authorization header", true)
	}

	return strings.TrimSpace(key), nil
}

// CurrentUser retrieves the authenticated user set by RequireAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	user, ok := c.Get(UserKey).(model.User)
	return user, ok
}

// GetUserID reads the authenticated user's ID string from Echo
// context, or "" when unauthenticated.
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
