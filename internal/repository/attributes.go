package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raffihq/recipe-api/internal/model"
)

// AttributeKind names the tables backing one attribute flavor. Tags
// and ingredients share the same schema shape, so one repository
// serves both.
type AttributeKind struct {
	Table      string
	JoinTable  string
	JoinColumn string
}

var (
	TagKind        = AttributeKind{Table: "tags", JoinTable: "recipe_tags", JoinColumn: "tag_id"}
	IngredientKind = AttributeKind{Table: "ingredients", JoinTable: "recipe_ingredients", JoinColumn: "ingredient_id"}
)

// AttributesRepository persists one kind of user-owned recipe
// attribute.
type AttributesRepository struct {
	pool *pgxpool.Pool
	kind AttributeKind
}

func NewAttributesRepository(pool *pgxpool.Pool, kind AttributeKind) *AttributesRepository {
	return &AttributesRepository{pool: pool, kind: kind}
}

// listQuery builds the attribute list query: owner-scoped, name
// descending. With assignedOnly the join to the recipe attachment
// table restricts results to attached attributes, DISTINCT because an
// attribute can be attached to many recipes.
func (k AttributeKind) listQuery(assignedOnly bool) string {
	if assignedOnly {
		return fmt.Sprintf(`
			SELECT DISTINCT a.id, a.user_id, a.name
			FROM %s a
			JOIN %s j ON j.%s = a.id
			WHERE a.user_id = $1
			ORDER BY a.name DESC`, k.Table, k.JoinTable, k.JoinColumn)
	}

	return fmt.Sprintf(`
		SELECT a.id, a.user_id, a.name
		FROM %s a
		WHERE a.user_id = $1
		ORDER BY a.name DESC`, k.Table)
}

// List returns the user's attributes ordered by name descending. With
// assignedOnly set, only attributes attached to at least one recipe
// are returned, each at most once.
func (r *AttributesRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]model.Attribute, error) {
	rows, err := r.pool.Query(ctx, r.kind.listQuery(assignedOnly), userID)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Attribute, error) {
		var a model.Attribute
		err := row.Scan(&a.ID, &a.UserID, &a.Name)
		return a, err
	})
}

// GetOrCreate returns the user's attribute with the given name,
// inserting it first if missing. The conflict arm forces RETURNING to
// yield the existing row.
func (r *AttributesRepository) GetOrCreate(ctx context.Context, userID int64, name string) (model.Attribute, error) {
	var a model.Attribute
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name)
		DO UPDATE SET name = EXCLUDED.name
		RETURNING id, user_id, name`, r.kind.Table),
		userID, name,
	).Scan(&a.ID, &a.UserID, &a.Name)
	if err != nil {
		return model.Attribute{}, err
	}
	return a, nil
}

// Update renames one of the user's attributes.
func (r *AttributesRepository) Update(ctx context.Context, id, userID int64, name string) (model.Attribute, error) {
	var a model.Attribute
	err := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE %s
		SET name = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name`, r.kind.Table),
		id, userID, name,
	).Scan(&a.ID, &a.UserID, &a.Name)
	if err != nil {
		return model.Attribute{}, fmt.Errorf("table:%s: %w", r.kind.Table, err)
	}
	return a, nil
}

// Delete removes one of the user's attributes. Join rows cascade.
func (r *AttributesRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND user_id = $2`, r.kind.Table),
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:%s: %w", r.kind.Table, pgx.ErrNoRows)
	}
	return nil
}
