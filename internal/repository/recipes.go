package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raffihq/recipe-api/internal/model"
)

// RecipesRepository persists recipes and their tag and ingredient
// attachments.
type RecipesRepository struct {
	pool *pgxpool.Pool
}

func NewRecipesRepository(pool *pgxpool.Pool) *RecipesRepository {
	return &RecipesRepository{pool: pool}
}

const recipeColumns = `id, user_id, title, time_minutes, price, description, link, image_path, created_at`

func scanRecipe(row pgx.Row) (model.Recipe, error) {
	var rec model.Recipe
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.TimeMinutes,
		&rec.Price,
		&rec.Description,
		&rec.Link,
		&rec.ImagePath,
		&rec.CreatedAt,
	)
	return rec, err
}

// Create inserts a recipe row. Attachments are set separately via
// SetTags and SetIngredients.
func (r *RecipesRepository) Create(ctx context.Context, rec model.Recipe) (model.Recipe, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO recipes (user_id, title, time_minutes, price, description, link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+recipeColumns,
		rec.UserID, rec.Title, rec.TimeMinutes, rec.Price, rec.Description, rec.Link,
	)

	return scanRecipe(row)
}

// GetForUser fetches one of the user's recipes with its tags and
// ingredients loaded. Recipes belonging to other users are reported as
// not found.
func (r *RecipesRepository) GetForUser(ctx context.Context, id, userID int64) (model.Recipe, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+recipeColumns+`
		FROM recipes
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	rec, err := scanRecipe(row)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("table:recipes: %w", err)
	}

	recipes := []model.Recipe{rec}
	if err := r.loadAttachments(ctx, recipes); err != nil {
		return model.Recipe{}, err
	}
	return recipes[0], nil
}

// buildRecipeListQuery assembles the list query: owner-scoped, newest
// first, optionally narrowed to recipes attached to any of the given
// tags or ingredients. The joins can multiply rows, hence DISTINCT.
func buildRecipeListQuery(userID int64, tagIDs, ingredientIDs []int64) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT DISTINCT r.id, r.user_id, r.title, r.time_minutes, r.price, r.description, r.link, r.image_path, r.created_at FROM recipes r`)

	args := []any{userID}
	if len(tagIDs) > 0 {
		args = append(args, tagIDs)
		fmt.Fprintf(&b, ` JOIN recipe_tags rt ON rt.recipe_id = r.id AND rt.tag_id = ANY($%d)`, len(args))
	}
	if len(ingredientIDs) > 0 {
		args = append(args, ingredientIDs)
		fmt.Fprintf(&b, ` JOIN recipe_ingredients ri ON ri.recipe_id = r.id AND ri.ingredient_id = ANY($%d)`, len(args))
	}
	b.WriteString(` WHERE r.user_id = $1 ORDER BY r.id DESC`)

	return b.String(), args
}

// List returns the user's recipes, newest first, with attachments
// loaded. Non-empty tagIDs or ingredientIDs narrow the result to
// recipes attached to any of the given attributes.
func (r *RecipesRepository) List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]model.Recipe, error) {
	query, args := buildRecipeListQuery(userID, tagIDs, ingredientIDs)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	recipes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Recipe, error) {
		return scanRecipe(row)
	})
	if err != nil {
		return nil, err
	}

	if err := r.loadAttachments(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// Update overwrites the recipe's own fields and returns the stored
// row. Attachments are untouched.
func (r *RecipesRepository) Update(ctx context.Context, rec model.Recipe) (model.Recipe, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE recipes
		SET title = $3, time_minutes = $4, price = $5, description = $6, link = $7
		WHERE id = $1 AND user_id = $2
		RETURNING `+recipeColumns,
		rec.ID, rec.UserID, rec.Title, rec.TimeMinutes, rec.Price, rec.Description, rec.Link,
	)

	updated, err := scanRecipe(row)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("table:recipes: %w", err)
	}
	return updated, nil
}

// Delete removes one of the user's recipes. Join rows cascade.
func (r *RecipesRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM recipes
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:recipes: %w", pgx.ErrNoRows)
	}
	return nil
}

// SetImagePath records the stored image location for a recipe.
func (r *RecipesRepository) SetImagePath(ctx context.Context, id, userID int64, path string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recipes
		SET image_path = $3
		WHERE id = $1 AND user_id = $2`,
		id, userID, path,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:recipes: %w", pgx.ErrNoRows)
	}
	return nil
}

// SetTags replaces the recipe's tag set with exactly the given tags.
func (r *RecipesRepository) SetTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	return r.replaceAttachments(ctx, "recipe_tags", "tag_id", recipeID, tagIDs)
}

// SetIngredients replaces the recipe's ingredient set with exactly the
// given ingredients.
func (r *RecipesRepository) SetIngredients(ctx context.Context, recipeID int64, ingredientIDs []int64) error {
	return r.replaceAttachments(ctx, "recipe_ingredients", "ingredient_id", recipeID, ingredientIDs)
}

func (r *RecipesRepository) replaceAttachments(ctx context.Context, table, column string, recipeID int64, ids []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1`, table),
		recipeID,
	); err != nil {
		return err
	}

	if len(ids) > 0 {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (recipe_id, %s) SELECT $1, unnest($2::bigint[])`, table, column),
			recipeID, ids,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// loadAttachments populates Tags and Ingredients for every recipe in
// the slice with two batched queries.
func (r *RecipesRepository) loadAttachments(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	index := make(map[int64]*model.Recipe, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = &recipes[i]
		recipes[i].Tags = []model.Tag{}
		recipes[i].Ingredients = []model.Ingredient{}
	}

	attach := func(query string, assign func(rec *model.Recipe, attr model.Attribute)) error {
		rows, err := r.pool.Query(ctx, query, ids)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var recipeID int64
			var attr model.Attribute
			if err := rows.Scan(&recipeID, &attr.ID, &attr.UserID, &attr.Name); err != nil {
				return err
			}
			if rec, ok := index[recipeID]; ok {
				assign(rec, attr)
			}
		}
		return rows.Err()
	}

	if err := attach(`
		SELECT rt.recipe_id, t.id, t.user_id, t.name
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.id`,
		func(rec *model.Recipe, attr model.Attribute) {
			rec.Tags = append(rec.Tags, attr)
		},
	); err != nil {
		return err
	}

	return attach(`
		SELECT ri.recipe_id, i.id, i.user_id, i.name
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY i.id`,
		func(rec *model.Recipe, attr model.Attribute) {
			rec.Ingredients = append(rec.Ingredients, attr)
		},
	)
}
