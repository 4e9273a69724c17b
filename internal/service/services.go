package service

import (
	"github.com/raffihq/recipe-api/internal/lib/job"
	"github.com/raffihq/recipe-api/internal/repository"
	"github.com/raffihq/recipe-api/internal/server"
)

// Services is a container for all service instances.
type Services struct {
	Users       *UserService
	Recipes     *RecipeService
	Tags        *AttributeService
	Ingredients *AttributeService
	Job         *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Users:       NewUserService(s, repos.Users, repos.Tokens),
		Recipes:     NewRecipeService(s, repos.Recipes, repos.Tags, repos.Ingredients),
		Tags:        NewAttributeService(s, repos.Tags),
		Ingredients: NewAttributeService(s, repos.Ingredients),
		Job:         s.Job,
	}, nil
}
