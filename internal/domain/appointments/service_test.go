package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/ports/auth"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Appointment
}

func (r *testRepo) Create(ctx context.Context, a Appointment) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = at
	r.byID[id] = a
	return nil
}

func (r *testRepo) ListByMatches(ctx context.Context, matchIDs []string) ([]Appointment, error) {
	set := map[string]bool{}
	for _, id := range matchIDs {
		set[id] = true
	}
	out := make([]Appointment, 0)
	for _, a := range r.byID {
		if set[a.MatchID] {
			out = append(out, a)
		}
	}
	return out, nil
}

// stubMatches: un único match m-1 entre a-1 y la fundación f-1.
type stubMatches struct{}

var theMatch = matches.Match{ID: "m-1", UserID: "a-1", PetID: "p-1", Score: 100, IsMatch: true, Status: matches.StatusPending}

func (stubMatches) AuthorizeParty(ctx context.Context, actor auth.Principal, matchID string) (matches.Match, access.Party, error) {
	if matchID != theMatch.ID {
		return matches.Match{}, "", matches.ErrNotFound
	}
	party, err := access.MatchParty(actor, theMatch.UserID, "f-1")
	if err != nil {
		return matches.Match{}, "", err
	}
	return theMatch, party, nil
}

func (stubMatches) Involving(ctx context.Context, actor auth.Principal) ([]matches.Match, error) {
	if actor.ID == "a-1" || actor.ID == "f-1" {
		return []matches.Match{theMatch}, nil
	}
	return []matches.Match{}, nil
}

func (stubMatches) Enrich(ctx context.Context, m matches.Match) (matches.Enriched, error) {
	return matches.Enriched{Match: m}, nil
}

var (
	adopter    = auth.Principal{ID: "a-1", Role: auth.RoleAdopter}
	foundation = auth.Principal{ID: "f-1", Role: auth.RoleFoundation}
	stranger   = auth.Principal{ID: "a-9", Role: auth.RoleAdopter}
)

func newTestService() (*Service, *testRepo) {
	repo := &testRepo{byID: map[string]Appointment{}}
	return NewService(repo, stubMatches{}, logger.Nop()), repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Create(t *testing.T) {
	svc, repo := newTestService()

	a, err := svc.Create(context.Background(), foundation, CreateInput{MatchID: "m-1", Date: "2025-12-30", Time: "15:30"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if a.Status != StatusScheduled || a.MatchID != "m-1" {
		t.Fatalf("unexpected appointment %#v", a)
	}
	if _, ok := repo.byID[a.ID]; !ok {
		t.Fatalf("expected appointment persisted")
	}
}

func TestService_Create_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		actor auth.Principal
		in    CreateInput
		want  error
	}{
		{"unknown match", adopter, CreateInput{MatchID: "nope", Date: "2025-12-30", Time: "10:00"}, matches.ErrNotFound},
		{"stranger", stranger, CreateInput{MatchID: "m-1", Date: "2025-12-30", Time: "10:00"}, access.ErrForbidden},
		{"bad date", adopter, CreateInput{MatchID: "m-1", Date: "30/12/2025", Time: "10:00"}, ErrInvalidInput},
		{"bad time", adopter, CreateInput{MatchID: "m-1", Date: "2025-12-30", Time: "9:5"}, ErrInvalidInput},
		{"hour out of range", adopter, CreateInput{MatchID: "m-1", Date: "2025-12-30", Time: "25:00"}, ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService()
			if _, err := svc.Create(context.Background(), tc.actor, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	a, err := svc.Create(context.Background(), adopter, CreateInput{MatchID: "m-1", Date: "2025-12-30", Time: "10:00"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), stranger, a.ID, StatusCancelled); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), adopter, "missing", StatusCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), adopter, a.ID, Status("postponed")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), foundation, a.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), adopter, CreateInput{MatchID: "m-1", Date: "2025-12-30", Time: "10:00"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	for _, actor := range []auth.Principal{adopter, foundation} {
		items, err := svc.List(context.Background(), actor)
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if len(items) != 1 || items[0].Match == nil || items[0].Match.Match.ID != "m-1" {
			t.Fatalf("expected one enriched appointment for %s, got %#v", actor.ID, items)
		}
	}

	items, err := svc.List(context.Background(), stranger)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected no appointments for stranger, got %d err %v", len(items), err)
	}
}
