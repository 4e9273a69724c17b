package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raffihq/recipe-api/internal/model"
)

// UsersRepository persists user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

func NewUsersRepository(pool *pgxpool.Pool) *UsersRepository {
	return &UsersRepository{pool: pool}
}

const userColumns = `id, email, name, password_hash, is_staff, is_superuser, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
	)
	return u, err
}

// Create inserts a new user and returns the stored row.
func (r *UsersRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Email, user.Name, user.PasswordHash, user.IsStaff, user.IsSuperuser,
	)

	return scanUser(row)
}

// GetByEmail fetches a user by exact email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1`,
		email,
	)

	u, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("table:users: %w", err)
	}
	return u, nil
}

// GetByID fetches a user by primary key.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("table:users: %w", err)
	}
	return u, nil
}

// Update overwrites the mutable fields of a user and returns the
// stored row.
func (r *UsersRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $2, name = $3, password_hash = $4
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Email, user.Name, user.PasswordHash,
	)

	u, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("table:users: %w", err)
	}
	return u, nil
}
