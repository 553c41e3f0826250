package matches

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/pets"
	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/domain/users"
	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/platform/observability"
	"pet-adoption-match/internal/ports/auth"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("match not found")
	ErrPetNotFound          = errors.New("pet not found")
	ErrDuplicateInteraction = errors.New("already interacted with this pet")
)

// PetLookup es lo que matches necesita de pets (lo cumple *pets.Service).
type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	OwnerOf(ctx context.Context, petID string) (string, error)
	ListByOwner(ctx context.Context, foundationID string) ([]pets.Pet, error)
	ListAvailable(ctx context.Context, f pets.AvailableFilter) ([]pets.Pet, error)
}

// UserLookup lo cumple *users.Service.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo  Repository
	pets  PetLookup
	users UserLookup
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, petsLookup PetLookup, usersLookup UserLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		pets:  petsLookup,
		users: usersLookup,
		log:   log.With(map[string]any{"component": "matches"}),
		now:   time.Now,
	}
}

// Swipe registra un like o pass. Orden de chequeos: rol, perfil completo,
// interacción previa, existencia de la mascota (solo en like).
func (s *Service) Swipe(ctx context.Context, actor auth.Principal, petID string, action Action) (Match, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || !action.Valid() {
		return Match{}, ErrInvalidInput
	}
	if actor.Role != auth.RoleAdopter {
		return Match{}, access.ErrForbidden
	}

	adopter, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return Match{}, err
	}
	if err := access.Swipe(actor, adopter.Traits != nil); err != nil {
		return Match{}, err
	}

	// Camino rápido; la unicidad real la hace el store en Create.
	if _, err := s.repo.GetByPair(ctx, actor.ID, petID); err == nil {
		return Match{}, ErrDuplicateInteraction
	} else if !errors.Is(err, ErrNotFound) {
		return Match{}, err
	}

	var petTraits *traits.Vector
	if action == ActionLike {
		p, err := s.pets.GetByID(ctx, petID)
		switch {
		case err == nil:
			petTraits = &p.Traits
		case errors.Is(err, pets.ErrNotFound):
			// Decide devuelve ErrPetNotFound
		default:
			return Match{}, err
		}
	}

	d, err := Decide(actor.ID, petID, action, *adopter.Traits, petTraits)
	if err != nil {
		return Match{}, err
	}

	now := s.now()
	m := Match{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		PetID:     petID,
		Score:     d.Score,
		IsMatch:   d.IsMatch,
		Status:    d.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Match{}, err
	}

	observability.MatchDecisions.WithLabelValues(string(action), d.outcome(action)).Inc()
	if action == ActionLike {
		observability.CompatibilityScore.Observe(d.Score)
	}
	s.log.Info("swipe recorded", map[string]any{
		"match_id": m.ID,
		"user_id":  m.UserID,
		"pet_id":   m.PetID,
		"action":   string(action),
		"score":    m.Score,
		"is_match": m.IsMatch,
	})

	return m, nil
}

// Accept pasa el match a accepted. Re-aceptar no escribe nada.
// Un match rejected también puede aceptarse.
func (s *Service) Accept(ctx context.Context, actor auth.Principal, matchID string) (Match, error) {
	m, party, err := s.AuthorizeParty(ctx, actor, matchID)
	if err != nil {
		return Match{}, err
	}
	if m.Status == StatusAccepted {
		return m, nil
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, m.ID, StatusAccepted, now); err != nil {
		return Match{}, err
	}

	s.log.Info("match accepted", map[string]any{
		"match_id": m.ID,
		"by":       actor.ID,
		"party":    string(party),
		"previous": string(m.Status),
	})

	m.Status = StatusAccepted
	m.UpdatedAt = now
	return m, nil
}

// AuthorizeParty resuelve el match y verifica que el actor sea parte.
// Existencia antes que ownership: 404 antes que 403.
func (s *Service) AuthorizeParty(ctx context.Context, actor auth.Principal, matchID string) (Match, access.Party, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return Match{}, "", ErrNotFound
	}

	m, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return Match{}, "", err
	}

	petOwner, err := s.pets.OwnerOf(ctx, m.PetID)
	switch {
	case err == nil:
	case errors.Is(err, pets.ErrNotFound):
		// mascota eliminada: ninguna fundación queda autorizada
		petOwner = ""
	default:
		return Match{}, "", err
	}

	party, err := access.MatchParty(actor, m.UserID, petOwner)
	if err != nil {
		return Match{}, "", err
	}
	return m, party, nil
}

// Enriched es un match con la mascota y el adoptante unidos.
// Pet o User en nil si se borraron entre lecturas.
type Enriched struct {
	Match Match
	Pet   *pets.Pet
	User  *users.User
}

// List devuelve los matches confirmados (is_match) visibles para el actor.
func (s *Service) List(ctx context.Context, actor auth.Principal) ([]Enriched, error) {
	items, err := s.listFor(ctx, actor, true)
	if err != nil {
		return nil, err
	}

	out := make([]Enriched, 0, len(items))
	for _, m := range items {
		e, err := s.Enrich(ctx, m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Involving devuelve todas las interacciones donde el actor es parte,
// con o sin match. Lo usan las citas.
func (s *Service) Involving(ctx context.Context, actor auth.Principal) ([]Match, error) {
	return s.listFor(ctx, actor, false)
}

func (s *Service) listFor(ctx context.Context, actor auth.Principal, onlyMatched bool) ([]Match, error) {
	switch actor.Role {
	case auth.RoleAdopter:
		return s.repo.ListByUser(ctx, actor.ID, onlyMatched)

	case auth.RoleFoundation:
		owned, err := s.pets.ListByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if len(owned) == 0 {
			return []Match{}, nil
		}
		ids := make([]string, 0, len(owned))
		for _, p := range owned {
			ids = append(ids, p.ID)
		}
		return s.repo.ListByPets(ctx, ids, onlyMatched)

	default:
		return nil, access.ErrForbidden
	}
}

// Enrich hace el join best-effort match + pet + user.
func (s *Service) Enrich(ctx context.Context, m Match) (Enriched, error) {
	e := Enriched{Match: m}

	p, err := s.pets.GetByID(ctx, m.PetID)
	switch {
	case err == nil:
		e.Pet = &p
	case !errors.Is(err, pets.ErrNotFound):
		return Enriched{}, err
	}

	u, err := s.users.GetByID(ctx, m.UserID)
	switch {
	case err == nil:
		e.User = &u
	case !errors.Is(err, users.ErrNotFound):
		return Enriched{}, err
	}

	return e, nil
}

// Available implementa pets.AvailableFeed.
func (s *Service) Available(ctx context.Context, actor auth.Principal) ([]pets.Pet, error) {
	if err := access.BrowsePets(actor); err != nil {
		return nil, err
	}

	adopter, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	seen, err := s.repo.InteractedPetIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return s.pets.ListAvailable(ctx, pets.AvailableFilter{
		ExcludeIDs: seen,
		Near:       adopter.Traits,
		Limit:      pets.AvailableLimit,
	})
}
