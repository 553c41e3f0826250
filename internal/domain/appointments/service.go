package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("appointment not found")
)

// MatchAuthorizer es lo que las citas necesitan de matches.
type MatchAuthorizer interface {
	AuthorizeParty(ctx context.Context, actor auth.Principal, matchID string) (matches.Match, access.Party, error)
	Involving(ctx context.Context, actor auth.Principal) ([]matches.Match, error)
	Enrich(ctx context.Context, m matches.Match) (matches.Enriched, error)
}

type Service struct {
	repo    Repository
	matches MatchAuthorizer
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, m MatchAuthorizer, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		matches: m,
		log:     log.With(map[string]any{"component": "appointments"}),
		now:     time.Now,
	}
}

type CreateInput struct {
	MatchID string
	Date    string // YYYY-MM-DD
	Time    string // HH:MM
}

func (s *Service) Create(ctx context.Context, actor auth.Principal, in CreateInput) (Appointment, error) {
	date := strings.TrimSpace(in.Date)
	hour := strings.TrimSpace(in.Time)
	if err := validateSlot(date, hour); err != nil {
		return Appointment{}, err
	}

	m, party, err := s.matches.AuthorizeParty(ctx, actor, in.MatchID)
	if err != nil {
		return Appointment{}, err
	}

	now := s.now()
	a := Appointment{
		ID:        uuid.NewString(),
		MatchID:   m.ID,
		Date:      date,
		Time:      hour,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment scheduled", map[string]any{
		"appointment_id": a.ID,
		"match_id":       a.MatchID,
		"party":          string(party),
	})
	return a, nil
}

// UpdateStatus permite cualquier status válido. Sin detección de conflictos.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Principal, id string, status Status) (Appointment, error) {
	if !status.Valid() {
		return Appointment{}, fmt.Errorf("%w: status must be scheduled, completed or cancelled", ErrInvalidInput)
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if _, _, err := s.matches.AuthorizeParty(ctx, actor, a.MatchID); err != nil {
		if errors.Is(err, matches.ErrNotFound) {
			// match huérfano: nadie puede operar la cita
			return Appointment{}, access.ErrForbidden
		}
		return Appointment{}, err
	}
	if a.Status == status {
		return a, nil
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, a.ID, status, now); err != nil {
		return Appointment{}, err
	}
	a.Status = status
	a.UpdatedAt = now
	return a, nil
}

// Enriched: cita + match + pet + user. Cualquiera de los joins puede ser nil.
type Enriched struct {
	Appointment Appointment
	Match       *matches.Enriched
}

// List devuelve las citas de todos los matches donde el actor es parte.
func (s *Service) List(ctx context.Context, actor auth.Principal) ([]Enriched, error) {
	involved, err := s.matches.Involving(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(involved) == 0 {
		return []Enriched{}, nil
	}

	byID := make(map[string]matches.Match, len(involved))
	ids := make([]string, 0, len(involved))
	for _, m := range involved {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}

	items, err := s.repo.ListByMatches(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Enriched, 0, len(items))
	for _, a := range items {
		e := Enriched{Appointment: a}
		if m, ok := byID[a.MatchID]; ok {
			joined, err := s.matches.Enrich(ctx, m)
			if err != nil {
				return nil, err
			}
			e.Match = &joined
		}
		out = append(out, e)
	}
	return out, nil
}

func validateSlot(date, hour string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if len(hour) != len(TimeLayout) {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	if _, err := time.Parse(TimeLayout, hour); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	return nil
}
