package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/raffihq/recipe-api/internal/server"
)

// Middlewares groups all middleware components used by the HTTP
// server so routing code has a single place to pull them from.
type Middlewares struct {
	Global          *GlobalMiddlewares
	Auth            *AuthMiddleware
	ContextEnhancer *ContextEnhancer
	Tracing         *TracingMiddleware
}

// NewMiddlewares constructs all middleware components. The
// authenticator resolves token keys to users; the auth middleware
// stays decoupled from the service layer through it.
func NewMiddlewares(s *server.Server, authenticator TokenAuthenticator) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, authenticator),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
	}
}
