package repository

import (
	"github.com/raffihq/recipe-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users       *UsersRepository
	Tokens      *TokensRepository
	Recipes     *RecipesRepository
	Tags        *AttributesRepository
	Ingredients *AttributesRepository
}

// NewRepositories constructs the repository container from the shared
// database pool on the server.
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Users:       NewUsersRepository(pool),
		Tokens:      NewTokensRepository(pool),
		Recipes:     NewRecipesRepository(pool),
		Tags:        NewAttributesRepository(pool, TagKind),
		Ingredients: NewAttributesRepository(pool, IngredientKind),
	}
}
