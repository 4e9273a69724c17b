package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/service"
	"github.com/raffihq/recipe-api/internal/validation"
)

// RecipeHandler covers recipe CRUD, list filtering, and image upload.
type RecipeHandler struct {
	Handler
	recipes *service.RecipeService
}

func NewRecipeHandler(s *server.Server, recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		Handler: NewHandler(s),
		recipes: recipes,
	}
}

// attributeInput is a nested tag or ingredient reference by name.
type attributeInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

func attributeNames(inputs []attributeInput) []string {
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	return names
}

// parseIDList converts a validated "1,2,3" filter value to IDs.
func parseIDList(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

type listRecipesRequest struct {
	Tags        string `query:"tags"`
	Ingredients string `query:"ingredients"`
}

func (r *listRecipesRequest) Validate() error {
	var errors validation.CustomValidationErrors
	if r.Tags != "" && !validation.IsValidIDList(r.Tags) {
		errors = append(errors, validation.CustomValidationError{
			Field:   "tags",
			Message: "must be a comma-separated list of IDs",
		})
	}
	if r.Ingredients != "" && !validation.IsValidIDList(r.Ingredients) {
		errors = append(errors, validation.CustomValidationError{
			Field:   "ingredients",
			Message: "must be a comma-separated list of IDs",
		})
	}
	if len(errors) > 0 {
		return errors
	}
	return nil
}

// List returns the caller's recipes, newest first, optionally filtered
// by tag or ingredient IDs.
func (h *RecipeHandler) List(c echo.Context, req *listRecipesRequest) ([]recipeResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	recipes, err := h.recipes.List(c.Request().Context(), user.ID, parseIDList(req.Tags), parseIDList(req.Ingredients))
	if err != nil {
		return nil, err
	}

	responses := make([]recipeResponse, len(recipes))
	for i, rec := range recipes {
		responses[i] = h.newRecipeResponse(rec)
	}
	return responses, nil
}

type createRecipeRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	TimeMinutes int              `json:"time_minutes" validate:"gte=0"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description"`
	Link        string           `json:"link" validate:"omitempty,max=255"`
	Tags        []attributeInput `json:"tags" validate:"omitempty,dive"`
	Ingredients []attributeInput `json:"ingredients" validate:"omitempty,dive"`
}

func (r *createRecipeRequest) Validate() error {
	return validation.Struct(r)
}

func (r *createRecipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Description: r.Description,
		Link:        r.Link,
		Tags:        attributeNames(r.Tags),
		Ingredients: attributeNames(r.Ingredients),
	}
}

// Create stores a new recipe, creating referenced tags and
// ingredients on the fly.
func (h *RecipeHandler) Create(c echo.Context, req *createRecipeRequest) (recipeDetailResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	rec, err := h.recipes.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return recipeDetailResponse{}, err
	}

	return h.newRecipeDetailResponse(rec), nil
}

type recipeIDRequest struct {
	ID int64 `param:"id" validate:"required,gte=1"`
}

func (r *recipeIDRequest) Validate() error {
	return validation.Struct(r)
}

// Get returns one recipe with full detail.
func (h *RecipeHandler) Get(c echo.Context, req *recipeIDRequest) (recipeDetailResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	rec, err := h.recipes.Get(c.Request().Context(), req.ID, user.ID)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	return h.newRecipeDetailResponse(rec), nil
}

type updateRecipeRequest struct {
	ID          int64             `param:"id" validate:"required,gte=1"`
	Title       *string           `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int              `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal  `json:"price"`
	Description *string           `json:"description"`
	Link        *string           `json:"link" validate:"omitempty,max=255"`
	Tags        *[]attributeInput `json:"tags" validate:"omitempty,dive"`
	Ingredients *[]attributeInput `json:"ingredients" validate:"omitempty,dive"`
}

func (r *updateRecipeRequest) Validate() error {
	return validation.Struct(r)
}

// Update applies a partial update. A present tags or ingredients
// array replaces the existing attachment set entirely.
func (h *RecipeHandler) Update(c echo.Context, req *updateRecipeRequest) (recipeDetailResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	patch := service.RecipePatch{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		names := attributeNames(*req.Tags)
		patch.Tags = &names
	}
	if req.Ingredients != nil {
		names := attributeNames(*req.Ingredients)
		patch.Ingredients = &names
	}

	rec, err := h.recipes.Update(c.Request().Context(), req.ID, user.ID, patch)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	return h.newRecipeDetailResponse(rec), nil
}

type replaceRecipeRequest struct {
	ID int64 `param:"id" validate:"required,gte=1"`
	createRecipeRequest
}

func (r *replaceRecipeRequest) Validate() error {
	return validation.Struct(r)
}

// Replace overwrites the whole recipe. Omitted optional fields reset
// to their zero values and attachments are replaced with the given
// sets.
func (h *RecipeHandler) Replace(c echo.Context, req *replaceRecipeRequest) (recipeDetailResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	input := req.toInput()
	tags := input.Tags
	ingredients := input.Ingredients

	rec, err := h.recipes.Update(c.Request().Context(), req.ID, user.ID, service.RecipePatch{
		Title:       &input.Title,
		TimeMinutes: &input.TimeMinutes,
		Price:       &input.Price,
		Description: &input.Description,
		Link:        &input.Link,
		Tags:        &tags,
		Ingredients: &ingredients,
	})
	if err != nil {
		return recipeDetailResponse{}, err
	}

	return h.newRecipeDetailResponse(rec), nil
}

// Delete removes one of the caller's recipes.
func (h *RecipeHandler) Delete(c echo.Context, req *recipeIDRequest) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.recipes.Delete(c.Request().Context(), req.ID, user.ID)
}

// UploadImage accepts a multipart "image" file and attaches it to the
// recipe.
func (h *RecipeHandler) UploadImage(c echo.Context, req *recipeIDRequest) (recipeDetailResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return recipeDetailResponse{}, errs.NewBadRequestError("No image file provided", true, nil, nil, nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return recipeDetailResponse{}, err
	}
	defer file.Close()

	rec, err := h.recipes.SaveImage(c.Request().Context(), req.ID, user.ID, fileHeader.Filename, file)
	if err != nil {
		return recipeDetailResponse{}, err
	}

	return h.newRecipeDetailResponse(rec), nil
}
