package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"pet-adoption-match/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `id, foundation_id, name, breed, age, personality_traits, images, status, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	tr, err := json.Marshal(p.Traits)
	if err != nil {
		return fmt.Errorf("encode personality_traits: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, foundation_id,
			name, breed, age,
			personality_traits, traits_vec, images,
			status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.FoundationID,
		p.Name,
		p.Breed,
		p.Age,
		string(tr),
		pgvector.NewVector(p.Traits.Floats()),
		images(p.Images),
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	tr, err := json.Marshal(p.Traits)
	if err != nil {
		return fmt.Errorf("encode personality_traits: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			breed = $3,
			age = $4,
			personality_traits = $5,
			traits_vec = $6,
			images = $7,
			status = $8,
			updated_at = $9
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Breed,
		p.Age,
		string(tr),
		pgvector.NewVector(p.Traits.Floats()),
		images(p.Images),
		string(p.Status),
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, foundationID string) ([]pets.Pet, error) {
	foundationID = strings.TrimSpace(foundationID)
	if foundationID == "" {
		return []pets.Pet{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE foundation_id = $1
		ORDER BY created_at ASC
	`, foundationID)
	if err != nil {
		return nil, err
	}
	return collectPets(rows)
}

// ListAvailable ordena por distancia L1 (<+>) al vector del adoptante:
// menor distancia es exactamente mayor compatibilidad.
func (r *PetsRepo) ListAvailable(ctx context.Context, f pets.AvailableFilter) ([]pets.Pet, error) {
	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}
	limit := f.Limit
	if limit <= 0 {
		limit = pets.AvailableLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if f.Near != nil {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+petColumns+`
			FROM pets
			WHERE status = 'available' AND id <> ALL($1::text[])
			ORDER BY traits_vec <+> $2::vector, created_at ASC
			LIMIT $3
		`, exclude, pgvector.NewVector(f.Near.Floats()), limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+petColumns+`
			FROM pets
			WHERE status = 'available' AND id <> ALL($1::text[])
			ORDER BY created_at ASC
			LIMIT $2
		`, exclude, limit)
	}
	if err != nil {
		return nil, err
	}
	return collectPets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p      pets.Pet
		raw    []byte
		status string
		imgs   []string
	)
	if err := row.Scan(
		&p.ID,
		&p.FoundationID,
		&p.Name,
		&p.Breed,
		&p.Age,
		&raw,
		typeMap.SQLScanner(&imgs),
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	if err := json.Unmarshal(raw, &p.Traits); err != nil {
		return pets.Pet{}, fmt.Errorf("decode personality_traits: %w", err)
	}
	p.Status = pets.Status(status)
	p.Images = images(imgs)
	return p, nil
}

func collectPets(rows *sql.Rows) ([]pets.Pet, error) {
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// images nunca es nil: TEXT[] NOT NULL.
func images(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
