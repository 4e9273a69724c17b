package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raffihq/recipe-api/internal/model"
)

// TokensRepository persists auth tokens. The table keeps at most one
// token per user, enforced by a unique constraint on user_id.
type TokensRepository struct {
	pool *pgxpool.Pool
}

func NewTokensRepository(pool *pgxpool.Pool) *TokensRepository {
	return &TokensRepository{pool: pool}
}

// Replace stores a fresh token for the user, discarding any existing
// one. The upsert keys on user_id so reissuing rotates the key in a
// single statement.
func (r *TokensRepository) Replace(ctx context.Context, userID int64, key string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET key = EXCLUDED.key, created_at = now()`,
		key, userID,
	)
	return err
}

// GetUserByKey resolves a token key to its owning user.
func (r *TokensRepository) GetUserByKey(ctx context.Context, key string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.is_staff, u.is_superuser, u.created_at
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = $1`,
		key,
	)

	u, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("table:auth_tokens: %w", err)
	}
	return u, nil
}

// PurgeOlderThan deletes tokens issued before now minus age and
// reports how many were removed.
func (r *TokensRepository) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM auth_tokens
		WHERE created_at < $1`,
		time.Now().Add(-age),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
