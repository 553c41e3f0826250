package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption-match/internal/domain/pets"
	"pet-adoption-match/internal/domain/traits"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return clonePet(p), nil
}

func (r *petRepo) ListByOwner(ctx context.Context, foundationID string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.FoundationID == foundationID {
			out = append(out, clonePet(p))
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sortByCreated(out)
	return out, nil
}

func (r *petRepo) ListAvailable(ctx context.Context, f pets.AvailableFilter) ([]pets.Pet, error) {
	skip := make(map[string]struct{}, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		skip[id] = struct{}{}
	}

	r.mu.RLock()
	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.Status != pets.StatusAvailable {
			continue
		}
		if _, seen := skip[p.ID]; seen {
			continue
		}
		out = append(out, clonePet(p))
	}
	r.mu.RUnlock()

	sortByCreated(out)
	if f.Near != nil {
		near := *f.Near
		// más compatible primero; empates por antigüedad
		sort.SliceStable(out, func(i, j int) bool {
			return traits.Score(near, out[i].Traits) > traits.Score(near, out[j].Traits)
		})
	}

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func sortByCreated(items []pets.Pet) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// clonePet evita compartir el slice de imágenes con el caller.
func clonePet(p pets.Pet) pets.Pet {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
