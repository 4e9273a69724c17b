package handler

import (
	"path"

	"github.com/shopspring/decimal"

	"github.com/raffihq/recipe-api/internal/model"
)

// userResponse is the public shape of an account. The password hash
// and permission flags stay internal.
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}

// recipeResponse is the list shape of a recipe. Price serializes as a
// string to preserve decimal exactness. Ingredients, description, and
// the image URL are detail-only fields.
type recipeResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	Tags        []model.Tag     `json:"tags"`
}

// recipeDetailResponse extends the list shape with ingredients, the
// description, and the image URL.
type recipeDetailResponse struct {
	recipeResponse
	Ingredients []model.Ingredient `json:"ingredients"`
	Description string             `json:"description"`
	Image       *string            `json:"image"`
}

func (h Handler) newRecipeResponse(rec model.Recipe) recipeResponse {
	return recipeResponse{
		ID:          rec.ID,
		Title:       rec.Title,
		TimeMinutes: rec.TimeMinutes,
		Price:       rec.Price,
		Link:        rec.Link,
		Tags:        rec.Tags,
	}
}

func (h Handler) newRecipeDetailResponse(rec model.Recipe) recipeDetailResponse {
	return recipeDetailResponse{
		recipeResponse: h.newRecipeResponse(rec),
		Ingredients:    rec.Ingredients,
		Description:    rec.Description,
		Image:          h.imageURL(rec.ImagePath),
	}
}

// imageURL maps a stored media path to its public URL, nil when no
// image is attached.
func (h Handler) imageURL(imagePath string) *string {
	if imagePath == "" {
		return nil
	}
	url := path.Join(h.server.Config.Media.BaseURL, imagePath)
	return &url
}
