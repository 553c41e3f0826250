package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/ports/auth"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, foundationID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.FoundationID == foundationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ListAvailable(ctx context.Context, f AvailableFilter) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.Status == StatusAvailable {
			out = append(out, p)
		}
	}
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

var (
	foundation = auth.Principal{ID: "f-1", Role: auth.RoleFoundation}
	other      = auth.Principal{ID: "f-2", Role: auth.RoleFoundation}
	adopter    = auth.Principal{ID: "a-1", Role: auth.RoleAdopter}

	someTraits = traits.Vector{Playful: 8, Calm: 6, Energetic: 7, Friendly: 9, Independent: 5, Social: 8}
)

func newPet(t *testing.T, svc *Service) Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), foundation, CreateInput{
		Name: " Max ", Breed: "Labrador", Age: 3, Traits: someTraits, Images: []string{"a.jpg", " "},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return p
}

// -------------------------
// Tests
// -------------------------

func TestService_Create(t *testing.T) {
	svc := NewService(newTestRepo())
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p := newPet(t, svc)
	if p.Name != "Max" || p.FoundationID != foundation.ID || p.Status != StatusAvailable {
		t.Fatalf("unexpected pet %#v", p)
	}
	if len(p.Images) != 1 {
		t.Fatalf("expected blank images dropped, got %v", p.Images)
	}
	if p.CreatedAt != now {
		t.Fatalf("expected CreatedAt to be now")
	}
}

func TestService_Create_Rejects(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), adopter, CreateInput{Name: "x", Breed: "y", Traits: someTraits}); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for adopter, got %v", err)
	}
	if _, err := svc.Create(context.Background(), foundation, CreateInput{Name: "x", Breed: "y", Age: -1, Traits: someTraits}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative age, got %v", err)
	}
	if _, err := svc.Create(context.Background(), foundation, CreateInput{Name: "x", Breed: "y"}); !errors.Is(err, traits.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange for missing traits, got %v", err)
	}
}

func TestService_Update_OwnerOnly_PatchSemantics(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)

	name := "Rex"
	if _, err := svc.Update(context.Background(), other, p.ID, UpdateInput{Name: &name}); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := svc.Update(context.Background(), foundation, "missing", UpdateInput{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	adopted := StatusAdopted
	updated, err := svc.Update(context.Background(), foundation, p.ID, UpdateInput{Name: &name, Status: &adopted})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != "Rex" || updated.Breed != "Labrador" || updated.Status != StatusAdopted {
		t.Fatalf("unexpected pet after update %#v", updated)
	}

	bad := Status("lost")
	if _, err := svc.Update(context.Background(), foundation, p.ID, UpdateInput{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)

	if err := svc.Delete(context.Background(), other, p.ID); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), foundation, p.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := svc.Delete(context.Background(), foundation, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestService_OwnerOf(t *testing.T) {
	svc := NewService(newTestRepo())
	p := newPet(t, svc)

	owner, err := svc.OwnerOf(context.Background(), p.ID)
	if err != nil || owner != foundation.ID {
		t.Fatalf("unexpected owner %q err %v", owner, err)
	}
	if _, err := svc.OwnerOf(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListMine_RequiresFoundation(t *testing.T) {
	svc := NewService(newTestRepo())
	newPet(t, svc)

	items, err := svc.ListMine(context.Background(), foundation)
	if err != nil || len(items) != 1 {
		t.Fatalf("expected 1 pet, got %d err %v", len(items), err)
	}
	if _, err := svc.ListMine(context.Background(), adopter); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
