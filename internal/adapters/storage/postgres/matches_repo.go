package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-adoption-match/internal/domain/matches"
)

type MatchesRepo struct {
	db *sql.DB
}

func NewMatchesRepo(db *sql.DB) *MatchesRepo {
	return &MatchesRepo{db: db}
}

const matchColumns = `id, user_id, pet_id, match_score, is_match, status, created_at, updated_at`

// Create delega la unicidad del par en matches_user_pet_key.
func (r *MatchesRepo) Create(ctx context.Context, m matches.Match) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		m.ID,
		m.UserID,
		m.PetID,
		m.Score,
		m.IsMatch,
		string(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	)
	if isUniqueViolation(err, "matches_user_pet_key") {
		return matches.ErrDuplicateInteraction
	}
	return err
}

func (r *MatchesRepo) GetByID(ctx context.Context, id string) (matches.Match, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	return oneMatch(row)
}

func (r *MatchesRepo) GetByPair(ctx context.Context, userID, petID string) (matches.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE user_id = $1 AND pet_id = $2
	`, userID, petID)
	return oneMatch(row)
}

func (r *MatchesRepo) UpdateStatus(ctx context.Context, id string, status matches.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE matches SET status = $2, updated_at = $3 WHERE id = $1
	`, id, string(status), at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return matches.ErrNotFound
	}
	return nil
}

func (r *MatchesRepo) ListByUser(ctx context.Context, userID string, onlyMatched bool) ([]matches.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE user_id = $1 AND (NOT $2 OR is_match)
		ORDER BY created_at ASC
	`, userID, onlyMatched)
	if err != nil {
		return nil, err
	}
	return collectMatches(rows)
}

func (r *MatchesRepo) ListByPets(ctx context.Context, petIDs []string, onlyMatched bool) ([]matches.Match, error) {
	if len(petIDs) == 0 {
		return []matches.Match{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+matchColumns+`
		FROM matches
		WHERE pet_id = ANY($1::text[]) AND (NOT $2 OR is_match)
		ORDER BY created_at ASC
	`, petIDs, onlyMatched)
	if err != nil {
		return nil, err
	}
	return collectMatches(rows)
}

func (r *MatchesRepo) InteractedPetIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT pet_id FROM matches WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func scanMatch(row rowScanner) (matches.Match, error) {
	var (
		m      matches.Match
		status string
	)
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.PetID,
		&m.Score,
		&m.IsMatch,
		&status,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return matches.Match{}, err
	}
	m.Status = matches.Status(status)
	return m, nil
}

func oneMatch(row *sql.Row) (matches.Match, error) {
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return matches.Match{}, matches.ErrNotFound
		}
		return matches.Match{}, err
	}
	return m, nil
}

func collectMatches(rows *sql.Rows) ([]matches.Match, error) {
	defer rows.Close()

	out := make([]matches.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
