package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raffihq/recipe-api/internal/handler"
	"github.com/raffihq/recipe-api/internal/middleware"
	"github.com/raffihq/recipe-api/internal/server"
)

// New builds the Echo router with the full middleware chain and all
// routes registered. Middleware order matters: request IDs and tracing
// come first so the context enhancer and request logger can pick their
// fields up.
func New(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	r := echo.New()
	r.HideBanner = true
	r.HidePort = true

	r.HTTPErrorHandler = m.Global.GlobalErrorHandler

	r.Use(m.Global.Recover())
	r.Use(middleware.RequestID())
	r.Use(m.Tracing.NewRelicMiddleware())
	r.Use(m.ContextEnhancer.EnhanceContext())
	r.Use(m.Tracing.EnhanceTracing())
	r.Use(m.Global.RequestLogger())
	r.Use(m.Global.CORS())
	r.Use(m.Global.Secure())
	r.Use(m.Global.BodyLimit())

	registerSystemRoutes(r, s, h)
	registerAPIRoutes(r, h, m)

	return r
}

// registerAPIRoutes maps the /api surface. Registration and token
// issuance are public; everything else requires token auth.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	api := r.Group("/api")

	// Account creation and login.
	user := api.Group("/user")
	user.POST("", handler.Handle(h.Users.Handler, h.Users.Register, http.StatusCreated))
	user.POST("/token", handler.Handle(h.Users.Handler, h.Users.Token, http.StatusOK))

	// Own profile.
	me := user.Group("/me", m.Auth.RequireAuth)
	me.GET("", h.Users.Me)
	me.PATCH("", handler.Handle(h.Users.Handler, h.Users.UpdateMe, http.StatusOK))
	me.PUT("", handler.Handle(h.Users.Handler, h.Users.ReplaceMe, http.StatusOK))

	recipes := api.Group("/recipes", m.Auth.RequireAuth)
	recipes.GET("", handler.Handle(h.Recipes.Handler, h.Recipes.List, http.StatusOK))
	recipes.POST("", handler.Handle(h.Recipes.Handler, h.Recipes.Create, http.StatusCreated))
	recipes.GET("/:id", handler.Handle(h.Recipes.Handler, h.Recipes.Get, http.StatusOK))
	recipes.PATCH("/:id", handler.Handle(h.Recipes.Handler, h.Recipes.Update, http.StatusOK))
	recipes.PUT("/:id", handler.Handle(h.Recipes.Handler, h.Recipes.Replace, http.StatusOK))
	recipes.DELETE("/:id", handler.HandleNoContent(h.Recipes.Handler, h.Recipes.Delete, http.StatusNoContent))
	recipes.POST("/:id/upload-image", handler.Handle(h.Recipes.Handler, h.Recipes.UploadImage, http.StatusOK))

	registerAttributeRoutes(api.Group("/tags", m.Auth.RequireAuth), h.Tags)
	registerAttributeRoutes(api.Group("/ingredients", m.Auth.RequireAuth), h.Ingredients)
}

func registerAttributeRoutes(g *echo.Group, h *handler.AttributeHandler) {
	g.GET("", handler.Handle(h.Handler, h.List, http.StatusOK))
	g.PATCH("/:id", handler.Handle(h.Handler, h.Update, http.StatusOK))
	g.PUT("/:id", handler.Handle(h.Handler, h.Update, http.StatusOK))
	g.DELETE("/:id", handler.HandleNoContent(h.Handler, h.Delete, http.StatusNoContent))
}
