package service

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

// RecipeStore is the subset of the recipes repository the service
// needs.
type RecipeStore interface {
	Create(ctx context.Context, rec model.Recipe) (model.Recipe, error)
	GetForUser(ctx context.Context, id, userID int64) (model.Recipe, error)
	List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.Recipe, error)
	Update(ctx context.Context, rec model.Recipe) (model.Recipe, error)
	Delete(ctx context.Context, id, userID int64) error
	SetImagePath(ctx context.Context, id, userID int64, path string) error
	SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	SetIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error
}

// AttributeResolver get-or-creates attributes by name for a user.
type AttributeResolver interface {
	GetOrCreate(ctx context.Context, userID int64, name string) (model.Attribute, error)
}

// RecipeService implements recipe CRUD with nested tag and ingredient
// handling and image storage.
type RecipeService struct {
	server      *server.Server
	recipes     RecipeStore
	tags        AttributeResolver
	ingredients AttributeResolver
}

func NewRecipeService(s *server.Server, recipes RecipeStore, tags, ingredients AttributeResolver) *RecipeService {
	return &RecipeService{
		server:      s,
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
	}
}

// RecipeInput carries a full recipe payload for create and replace.
// Tags and Ingredients are attribute names; unknown names are created
// for the user on the fly.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	Tags        []string
	Ingredients []string
}

// RecipePatch is a partial recipe update. Nil fields are untouched; a
// non-nil Tags or Ingredients slice replaces the whole attachment set.
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// List returns the user's recipes, optionally filtered to those
// attached to any of the given tag or ingredient IDs.
func (s *RecipeService) List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.Recipe, error) {
	return s.recipes.List(ctx, userID, tagIDs, ingredientIDs)
}

// Get returns one of the user's recipes with attachments loaded.
func (s *RecipeService) Get(ctx context.Context, id, userID int64) (model.Recipe, error) {
	return s.recipes.GetForUser(ctx, id, userID)
}

// Create stores a new recipe for the user, resolving tag and
// ingredient names to attribute rows.
func (s *RecipeService) Create(ctx context.Context, userID int64, input RecipeInput) (model.Recipe, error) {
	rec, err := s.recipes.Create(ctx, model.Recipe{
		UserID:      userID,
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Description: input.Description,
		Link:        input.Link,
	})
	if err != nil {
		return model.Recipe{}, err
	}

	if err := s.attach(ctx, userID, rec.ID, input.Tags, input.Ingredients); err != nil {
		return model.Recipe{}, err
	}

	return s.recipes.GetForUser(ctx, rec.ID, userID)
}

// Update applies a partial update to one of the user's recipes. A
// present Tags or Ingredients list replaces the existing set entirely.
func (s *RecipeService) Update(ctx context.Context, id, userID int64, patch RecipePatch) (model.Recipe, error) {
	rec, err := s.recipes.GetForUser(ctx, id, userID)
	if err != nil {
		return model.Recipe{}, err
	}

	if patch.Title != nil {
		rec.Title = *patch.Title
	}
	if patch.TimeMinutes != nil {
		rec.TimeMinutes = *patch.TimeMinutes
	}
	if patch.Price != nil {
		rec.Price = *patch.Price
	}
	if patch.Description != nil {
		rec.Description = *patch.Description
	}
	if patch.Link != nil {
		rec.Link = *patch.Link
	}

	if _, err := s.recipes.Update(ctx, rec); err != nil {
		return model.Recipe{}, err
	}

	var tags, ingredients []string
	if patch.Tags != nil {
		tags = *patch.Tags
	}
	if patch.Ingredients != nil {
		ingredients = *patch.Ingredients
	}
	if patch.Tags != nil || patch.Ingredients != nil {
		if err := s.attachPartial(ctx, userID, id, patch.Tags != nil, tags, patch.Ingredients != nil, ingredients); err != nil {
			return model.Recipe{}, err
		}
	}

	return s.recipes.GetForUser(ctx, id, userID)
}

// Delete removes one of the user's recipes.
func (s *RecipeService) Delete(ctx context.Context, id, userID int64) error {
	return s.recipes.Delete(ctx, id, userID)
}

// SaveImage stores an uploaded image for the recipe and records its
// path. The payload must sniff as an image type.
func (s *RecipeService) SaveImage(ctx context.Context, id, userID int64, filename string, body io.Reader) (model.Recipe, error) {
	if _, err := s.recipes.GetForUser(ctx, id, userID); err != nil {
		return model.Recipe{}, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return model.Recipe{}, errors.Wrap(err, "failed to read uploaded image")
	}
	head = head[:n]

	if !strings.HasPrefix(http.DetectContentType(head), "image/") {
		return model.Recipe{}, errs.NewBadRequestError("Uploaded file is not a valid image", true, nil, nil, nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	relPath := filepath.Join("recipes", uuid.NewString()+ext)
	fullPath := filepath.Join(s.server.Config.Media.Root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return model.Recipe{}, errors.Wrap(err, "failed to create media directory")
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return model.Recipe{}, errors.Wrap(err, "failed to create image file")
	}
	defer f.Close()

	if _, err := f.Write(head); err != nil {
		return model.Recipe{}, errors.Wrap(err, "failed to write image file")
	}
	if _, err := io.Copy(f, body); err != nil {
		return model.Recipe{}, errors.Wrap(err, "failed to write image file")
	}

	if err := s.recipes.SetImagePath(ctx, id, userID, relPath); err != nil {
		return model.Recipe{}, err
	}

	return s.recipes.GetForUser(ctx, id, userID)
}

func (s *RecipeService) attach(ctx context.Context, userID, recipeID int64, tags, ingredients []string) error {
	return s.attachPartial(ctx, userID, recipeID, true, tags, true, ingredients)
}

func (s *RecipeService) attachPartial(ctx context.Context, userID, recipeID int64, setTags bool, tags []string, setIngredients bool, ingredients []string) error {
	if setTags {
		ids, err := s.resolve(ctx, s.tags, userID, tags)
		if err != nil {
			return err
		}
		if err := s.recipes.SetTags(ctx, recipeID, ids); err != nil {
			return err
		}
	}

	if setIngredients {
		ids, err := s.resolve(ctx, s.ingredients, userID, ingredients)
		if err != nil {
			return err
		}
		if err := s.recipes.SetIngredients(ctx, recipeID, ids); err != nil {
			return err
		}
	}

	return nil
}

func (s *RecipeService) resolve(ctx context.Context, resolver AttributeResolver, userID int64, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	seen := make(map[int64]struct{}, len(names))

	for _, name := range names {
		attr, err := resolver.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[attr.ID]; ok {
			continue
		}
		seen[attr.ID] = struct{}{}
		ids = append(ids, attr.ID)
	}

	return ids, nil
}
