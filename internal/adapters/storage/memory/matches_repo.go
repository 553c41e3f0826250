package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption-match/internal/domain/matches"
)

type pairKey struct {
	userID string
	petID  string
}

type matchRepo struct {
	mu     sync.RWMutex
	byID   map[string]matches.Match
	byPair map[pairKey]string
}

func NewMatchRepo() matches.Repository {
	return &matchRepo{
		byID:   make(map[string]matches.Match),
		byPair: make(map[pairKey]string),
	}
}

// Create chequea el par bajo el mismo lock que inserta.
func (r *matchRepo) Create(ctx context.Context, m matches.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("match id required")
	}
	key := pairKey{userID: m.UserID, petID: m.PetID}
	if _, exists := r.byPair[key]; exists {
		return matches.ErrDuplicateInteraction
	}
	r.byID[m.ID] = m
	r.byPair[key] = m.ID
	return nil
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return matches.Match{}, matches.ErrNotFound
	}
	return m, nil
}

func (r *matchRepo) GetByPair(ctx context.Context, userID, petID string) (matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey{userID: userID, petID: petID}]
	if !ok {
		return matches.Match{}, matches.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *matchRepo) UpdateStatus(ctx context.Context, id string, status matches.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return matches.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = at
	r.byID[id] = m
	return nil
}

func (r *matchRepo) ListByUser(ctx context.Context, userID string, onlyMatched bool) ([]matches.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matches.Match, 0)
	for _, m := range r.byID {
		if m.UserID == userID && (!onlyMatched || m.IsMatch) {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *matchRepo) ListByPets(ctx context.Context, petIDs []string, onlyMatched bool) ([]matches.Match, error) {
	set := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		set[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matches.Match, 0)
	for _, m := range r.byID {
		if _, ok := set[m.PetID]; ok && (!onlyMatched || m.IsMatch) {
			out = append(out, m)
		}
	}
	sortMatches(out)
	return out, nil
}

func (r *matchRepo) InteractedPetIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for key := range r.byPair {
		if key.userID == userID {
			out = append(out, key.petID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func sortMatches(items []matches.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
