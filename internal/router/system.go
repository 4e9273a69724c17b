package router

import (
	"github.com/labstack/echo/v4"

	"github.com/raffihq/recipe-api/internal/handler"
	"github.com/raffihq/recipe-api/internal/server"
)

// registerSystemRoutes registers endpoints that are not part of
// business logic: health, docs, static assets, and uploaded media.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and openapi.html assets.
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	// Uploaded recipe images.
	r.Static(s.Config.Media.BaseURL, s.Config.Media.Root)
}
