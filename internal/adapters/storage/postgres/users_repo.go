package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/domain/users"
	"pet-adoption-match/internal/ports/auth"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `id, email, password_hash, name, age, user_type, personality_traits, created_at, updated_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	tr, err := nullableTraits(u.Traits)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Age,
		string(u.Role),
		tr,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if isUniqueViolation(err, "users_email_key") {
		return users.ErrEmailTaken
	}
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	tr, err := nullableTraits(u.Traits)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			name = $3,
			age = $4,
			personality_traits = $5,
			updated_at = $6
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		u.Name,
		u.Age,
		tr,
		u.UpdatedAt,
	)
	if isUniqueViolation(err, "users_email_key") {
		return users.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UsersRepo) getOne(ctx context.Context, query string, arg string) (users.User, error) {
	var (
		u    users.User
		role string
		raw  []byte
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Age,
		&role,
		&raw,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}

	u.Role = auth.Role(role)
	if len(raw) > 0 {
		var v traits.Vector
		if err := json.Unmarshal(raw, &v); err != nil {
			return users.User{}, fmt.Errorf("decode personality_traits: %w", err)
		}
		u.Traits = &v
	}
	return u, nil
}

// nullableTraits: nil => NULL en la columna JSONB.
func nullableTraits(v *traits.Vector) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode personality_traits: %w", err)
	}
	return string(b), nil
}
