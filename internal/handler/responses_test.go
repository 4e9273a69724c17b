package handler

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raffihq/recipe-api/internal/config"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
)

func newTestHandler() Handler {
	return NewHandler(&server.Server{
		Config: &config.Config{
			Media: config.MediaConfig{Root: "media", BaseURL: "/media"},
		},
	})
}

func TestImageURL(t *testing.T) {
	h := newTestHandler()

	assert.Nil(t, h.imageURL(""))

	url := h.imageURL("recipes/abc.png")
	require.NotNil(t, url)
	assert.Equal(t, "/media/recipes/abc.png", *url)
}

func TestRecipeDetailResponseSerialization(t *testing.T) {
	h := newTestHandler()

	rec := model.Recipe{
		ID:          3,
		Title:       "Sample recipe",
		TimeMinutes: 10,
		Price:       decimal.RequireFromString("5.25"),
		Description: "Sample description",
		ImagePath:   "recipes/abc.png",
		Tags:        []model.Tag{{ID: 1, Name: "Dessert"}},
		Ingredients: []model.Ingredient{},
	}

	payload, err := json.Marshal(h.newRecipeDetailResponse(rec))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "5.25", decoded["price"])
	assert.Equal(t, "/media/recipes/abc.png", decoded["image"])
	assert.Equal(t, "Sample description", decoded["description"])
	assert.Contains(t, decoded, "ingredients")

	tags := decoded["tags"].([]interface{})
	require.Len(t, tags, 1)
	tag := tags[0].(map[string]interface{})
	assert.Equal(t, "Dessert", tag["name"])
	assert.NotContains(t, tag, "user_id")
}

func TestRecipeListResponseOmitsDetailFields(t *testing.T) {
	h := newTestHandler()

	rec := model.Recipe{
		ID:          1,
		Title:       "Short",
		Description: "Hidden in lists",
		ImagePath:   "recipes/abc.png",
		Ingredients: []model.Ingredient{{ID: 9, Name: "Salt"}},
	}

	payload, err := json.Marshal(h.newRecipeResponse(rec))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.NotContains(t, decoded, "description")
	assert.NotContains(t, decoded, "image")
	assert.NotContains(t, decoded, "ingredients")
}

func TestParseIDList(t *testing.T) {
	assert.Nil(t, parseIDList(""))
	assert.Equal(t, []int64{1}, parseIDList("1"))
	assert.Equal(t, []int64{1, 2, 3}, parseIDList("1,2,3"))
}

func TestListRecipesRequestValidate(t *testing.T) {
	assert.NoError(t, (&listRecipesRequest{}).Validate())
	assert.NoError(t, (&listRecipesRequest{Tags: "1,2"}).Validate())
	assert.Error(t, (&listRecipesRequest{Tags: "1,"}).Validate())
	assert.Error(t, (&listRecipesRequest{Ingredients: "abc"}).Validate())
}

func TestAttributeNames(t *testing.T) {
	names := attributeNames([]attributeInput{{Name: "Vegan"}, {Name: "Dinner"}})
	assert.Equal(t, []string{"Vegan", "Dinner"}, names)
}
