package handler

import (
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/service"
)

// Handlers is a container that groups all HTTP handlers so router
// setup passes one object around.
type Handlers struct {
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
	Users       *UserHandler
	Recipes     *RecipeHandler
	Tags        *AttributeHandler
	Ingredients *AttributeHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
		Users:       NewUserHandler(s, services.Users),
		Recipes:     NewRecipeHandler(s, services.Recipes),
		Tags:        NewAttributeHandler(s, services.Tags),
		Ingredients: NewAttributeHandler(s, services.Ingredients),
	}
}
