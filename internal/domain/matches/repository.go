package matches

import (
	"context"
	"time"
)

type Repository interface {
	// Create devuelve ErrDuplicateInteraction si ya existe el par (user_id, pet_id).
	// La unicidad la garantiza el store, no el caller.
	Create(ctx context.Context, m Match) error

	GetByID(ctx context.Context, id string) (Match, error)
	GetByPair(ctx context.Context, userID, petID string) (Match, error)

	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error

	ListByUser(ctx context.Context, userID string, onlyMatched bool) ([]Match, error)
	ListByPets(ctx context.Context, petIDs []string, onlyMatched bool) ([]Match, error)

	// InteractedPetIDs: likes y passes, cualquier resultado.
	InteractedPetIDs(ctx context.Context, userID string) ([]string, error)
}
