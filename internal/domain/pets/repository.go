package pets

import (
	"context"

	"pet-adoption-match/internal/domain/traits"
)

// AvailableFilter describe el feed de un adoptante.
type AvailableFilter struct {
	// Mascotas con las que el adoptante ya interactuó.
	ExcludeIDs []string

	// Si no es nil, se ordena de más a menos compatible con este vector.
	Near *traits.Vector

	Limit int
}

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	// Delete devuelve ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, foundationID string) ([]Pet, error)
	ListAvailable(ctx context.Context, f AvailableFilter) ([]Pet, error)
}
