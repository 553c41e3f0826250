package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"pet-adoption-match/internal/domain/chats"
	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/domain/pets"
	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/domain/users"
)

// Corre contra una base real solo si PAWMATCH_TEST_DSN está seteado
// (requiere la extensión vector). Trunca las tablas.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("PAWMATCH_TEST_DSN")
	if dsn == "" {
		t.Skip("PAWMATCH_TEST_DSN not set")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE users, pets, matches, appointments, chats`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func TestPostgres_MatchPairConflict(t *testing.T) {
	db := openTestDB(t)
	repo := NewMatchesRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		dups int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, matches.Match{
				ID: fmt.Sprintf("m-%d", i), UserID: "a-1", PetID: "p-1",
				Status: matches.StatusRejected, CreatedAt: now, UpdatedAt: now,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				oks++
			case errors.Is(err, matches.ErrDuplicateInteraction):
				dups++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}(i)
	}
	wg.Wait()

	if oks != 1 || dups != n-1 {
		t.Fatalf("expected exactly one insert, got %d ok / %d dup", oks, dups)
	}
	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, matches.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_ChatAppendIsAtomic(t *testing.T) {
	db := openTestDB(t)
	repo := NewChatsRepo(db)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seed := chats.Chat{ID: fmt.Sprintf("c-%d", i), MatchID: "m-1", CreatedAt: time.Now().UTC()}
			msg := chats.Message{SenderID: "a-1", SenderType: chats.SenderUser, Message: fmt.Sprintf("msg %d", i), Timestamp: time.Now().UTC()}
			if err := repo.Append(ctx, seed, msg); err != nil {
				t.Errorf("Append error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	c, err := repo.GetOrCreate(ctx, chats.Chat{ID: "c-late", MatchID: "m-1", CreatedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("GetOrCreate error: %v", err)
	}
	if c.ID == "c-late" || len(c.Messages) != n {
		t.Fatalf("expected the existing chat with %d messages, got id=%s len=%d", n, c.ID, len(c.Messages))
	}
}

func TestPostgres_AvailableOrderedByCompatibility(t *testing.T) {
	db := openTestDB(t)
	repo := NewPetsRepo(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	adopter := traits.Vector{Playful: 8, Calm: 6, Energetic: 7, Friendly: 9, Independent: 5, Social: 8}
	far := traits.Vector{Playful: 1, Calm: 10, Energetic: 1, Friendly: 1, Independent: 10, Social: 1}
	mid := traits.Vector{Playful: 5, Calm: 5, Energetic: 5, Friendly: 5, Independent: 5, Social: 5}

	seed := []pets.Pet{
		{ID: "far", Traits: far, Status: pets.StatusAvailable},
		{ID: "mid", Traits: mid, Status: pets.StatusAvailable},
		{ID: "same", Traits: adopter, Status: pets.StatusAvailable, Images: []string{"a.jpg"}},
		{ID: "adopted", Traits: adopter, Status: pets.StatusAdopted},
		{ID: "seen", Traits: adopter, Status: pets.StatusAvailable},
	}
	for i, p := range seed {
		p.FoundationID = "f-1"
		p.Name, p.Breed = p.ID, "mixed"
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	got, err := repo.ListAvailable(ctx, pets.AvailableFilter{ExcludeIDs: []string{"seen"}, Near: &adopter, Limit: 10})
	if err != nil {
		t.Fatalf("ListAvailable error: %v", err)
	}
	want := []string{"same", "mid", "far"}
	if len(got) != len(want) {
		t.Fatalf("expected %d pets, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if len(got[0].Images) != 1 || got[0].Traits != adopter {
		t.Fatalf("unexpected round trip %#v", got[0])
	}

	oldest, _ := repo.ListAvailable(ctx, pets.AvailableFilter{Limit: 1})
	if len(oldest) != 1 || oldest[0].ID != "far" {
		t.Fatalf("expected oldest first without Near, got %#v", oldest)
	}
}

func TestPostgres_UserEmailUnique(t *testing.T) {
	db := openTestDB(t)
	repo := NewUsersRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()

	u := users.User{ID: "u-1", Email: "a@test.com", PasswordHash: "x", Name: "A", Age: 30, Role: "adopter", CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	u.ID = "u-2"
	if err := repo.Create(ctx, u); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	got, err := repo.GetByEmail(ctx, "a@test.com")
	if err != nil || got.ID != "u-1" || got.Traits != nil {
		t.Fatalf("unexpected lookup %#v err %v", got, err)
	}
}
