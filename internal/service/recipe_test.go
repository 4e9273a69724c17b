package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffihq/recipe-api/internal/config"
	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

type fakeRecipeStore struct {
	nextID  int64
	recipes map[int64]model.Recipe

	tagSets        map[int64][]int64
	ingredientSets map[int64][]int64

	setTagsCalls        int
	setIngredientCalls  int
	imagePathsByRecipes map[int64]string
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{
		recipes:             map[int64]model.Recipe{},
		tagSets:             map[int64][]int64{},
		ingredientSets:      map[int64][]int64{},
		imagePathsByRecipes: map[int64]string{},
	}
}

func (f *fakeRecipeStore) Create(_ context.Context, rec model.Recipe) (model.Recipe, error) {
	f.nextID++
	rec.ID = f.nextID
	f.recipes[rec.ID] = rec
	return rec, nil
}

func (f *fakeRecipeStore) GetForUser(_ context.Context, id, userID int64) (model.Recipe, error) {
	rec, ok := f.recipes[id]
	if !ok || rec.UserID != userID {
		return model.Recipe{}, fmt.Errorf("table:recipes: no rows")
	}
	return rec, nil
}

func (f *fakeRecipeStore) List(_ context.Context, userID int64, _, _ []int64) ([]model.Recipe, error) {
	var out []model.Recipe
	for _, rec := range f.recipes {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRecipeStore) Update(_ context.Context, rec model.Recipe) (model.Recipe, error) {
	existing, ok := f.recipes[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return model.Recipe{}, fmt.Errorf("table:recipes: no rows")
	}
	f.recipes[rec.ID] = rec
	return rec, nil
}

func (f *fakeRecipeStore) Delete(_ context.Context, id, userID int64) error {
	rec, ok := f.recipes[id]
	if !ok || rec.UserID != userID {
		return fmt.Errorf("table:recipes: no rows")
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeStore) SetImagePath(_ context.Context, id, _ int64, path string) error {
	f.imagePathsByRecipes[id] = path
	return nil
}

func (f *fakeRecipeStore) SetTags(_ context.Context, recipeID int64, tagIDs []int64) error {
	f.setTagsCalls++
	f.tagSets[recipeID] = tagIDs
	return nil
}

func (f *fakeRecipeStore) SetIngredients(_ context.Context, recipeID int64, ingredientIDs []int64) error {
	f.setIngredientCalls++
	f.ingredientSets[recipeID] = ingredientIDs
	return nil
}

type fakeResolver struct {
	nextID int64
	byName map[string]int64
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{byName: map[string]int64{}}
}

func (f *fakeResolver) GetOrCreate(_ context.Context, userID int64, name string) (model.Attribute, error) {
	if id, ok := f.byName[name]; ok {
		return model.Attribute{ID: id, UserID: userID, Name: name}, nil
	}
	f.nextID++
	f.byName[name] = f.nextID
	return model.Attribute{ID: f.nextID, UserID: userID, Name: name}, nil
}

func newTestRecipeService(t *testing.T) (*RecipeService, *fakeRecipeStore, *fakeResolver, *fakeResolver) {
	t.Helper()

	s := &server.Server{
		Config: &config.Config{
			Media: config.MediaConfig{Root: t.TempDir(), BaseURL: "/media"},
		},
	}

	recipes := newFakeRecipeStore()
	tags := newFakeResolver()
	ingredients := newFakeResolver()
	return NewRecipeService(s, recipes, tags, ingredients), recipes, tags, ingredients
}

func TestCreateRecipeResolvesAttributes(t *testing.T) {
	svc, store, tags, ingredients := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{
		Title:       "Thai prawn curry",
		TimeMinutes: 30,
		Price:       decimal.NewFromFloat(12.50),
		Tags:        []string{"Thai", "Dinner"},
		Ingredients: []string{"Prawns", "Coconut milk"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, store.tagSets[rec.ID])
	assert.Equal(t, []int64{1, 2}, store.ingredientSets[rec.ID])
	assert.Len(t, tags.byName, 2)
	assert.Len(t, ingredients.byName, 2)
}

func TestCreateRecipeReusesExistingAttributes(t *testing.T) {
	svc, store, tags, _ := newTestRecipeService(t)

	_, err := tags.GetOrCreate(context.Background(), 1, "Vegan")
	require.NoError(t, err)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{
		Title: "Avocado toast",
		Tags:  []string{"Vegan", "Breakfast"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, store.tagSets[rec.ID])
	assert.Len(t, tags.byName, 2)
}

func TestCreateRecipeDeduplicatesAttributeNames(t *testing.T) {
	svc, store, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{
		Title: "Soup",
		Tags:  []string{"Winter", "Winter"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1}, store.tagSets[rec.ID])
}

func TestUpdateRecipePatchLeavesAttachments(t *testing.T) {
	svc, store, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{
		Title: "Original",
		Tags:  []string{"Keep"},
	})
	require.NoError(t, err)
	callsAfterCreate := store.setTagsCalls

	title := "Renamed"
	updated, err := svc.Update(context.Background(), rec.ID, 1, RecipePatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, callsAfterCreate, store.setTagsCalls)
	assert.Equal(t, []int64{1}, store.tagSets[rec.ID])
}

func TestUpdateRecipeEmptyTagsClearsSet(t *testing.T) {
	svc, store, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{
		Title: "Original",
		Tags:  []string{"Old"},
	})
	require.NoError(t, err)

	empty := []string{}
	_, err = svc.Update(context.Background(), rec.ID, 1, RecipePatch{Tags: &empty})
	require.NoError(t, err)

	assert.Empty(t, store.tagSets[rec.ID])
}

func TestUpdateRecipeOtherUsersRecipeNotFound(t *testing.T) {
	svc, _, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{Title: "Mine"})
	require.NoError(t, err)

	title := "Stolen"
	_, err = svc.Update(context.Background(), rec.ID, 2, RecipePatch{Title: &title})
	require.Error(t, err)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestSaveImageStoresFile(t *testing.T) {
	svc, store, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{Title: "Photogenic"})
	require.NoError(t, err)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0xAB}, 1024)...)
	_, err = svc.SaveImage(context.Background(), rec.ID, 1, "photo.png", bytes.NewReader(payload))
	require.NoError(t, err)

	relPath := store.imagePathsByRecipes[rec.ID]
	require.NotEmpty(t, relPath)
	assert.Equal(t, ".png", filepath.Ext(relPath))

	written, err := os.ReadFile(filepath.Join(svc.server.Config.Media.Root, relPath))
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestSaveImageRejectsNonImage(t *testing.T) {
	svc, store, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{Title: "Not photogenic"})
	require.NoError(t, err)

	_, err = svc.SaveImage(context.Background(), rec.ID, 1, "notes.txt", bytes.NewReader([]byte("just text")))

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, store.imagePathsByRecipes[rec.ID])
}

func TestDeleteRecipe(t *testing.T) {
	svc, store, _, _ := newTestRecipeService(t)

	rec, err := svc.Create(context.Background(), 1, RecipeInput{Title: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), rec.ID, 1))
	assert.Empty(t, store.recipes)
}
