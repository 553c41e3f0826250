package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/ports/auth"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(ctx context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID, email string) (string, error) {
	return "token-" + userID, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, stubIssuer{})
	svc.hashCost = bcrypt.MinCost
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestService_Register_NormalizesEmail_AndHashes(t *testing.T) {
	svc, repo := newTestService()

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	sess, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Adopter@Test.com ",
		Password: "TestPass123!",
		Name:     "Ana",
		Age:      28,
		Role:     auth.RoleAdopter,
		Traits:   &traits.Vector{Playful: 8, Calm: 6, Energetic: 7, Friendly: 9, Independent: 5, Social: 8},
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if sess.User.Email != "adopter@test.com" {
		t.Fatalf("expected normalized email, got %q", sess.User.Email)
	}
	if sess.Token != "token-"+sess.User.ID {
		t.Fatalf("unexpected token %q", sess.Token)
	}
	stored := repo.byID[sess.User.ID]
	if stored.PasswordHash == "TestPass123!" || stored.PasswordHash == "" {
		t.Fatalf("expected hashed password")
	}
	if stored.CreatedAt != now {
		t.Fatalf("expected CreatedAt to be now")
	}
}

func TestService_Register_Rejects(t *testing.T) {
	valid := RegisterInput{Email: "f@test.com", Password: "x", Name: "F", Age: 25, Role: auth.RoleFoundation}

	cases := []struct {
		name   string
		modify func(in *RegisterInput)
		want   error
	}{
		{"underage", func(in *RegisterInput) { in.Age = 17 }, ErrInvalidInput},
		{"bad role", func(in *RegisterInput) { in.Role = "admin" }, ErrInvalidInput},
		{"no password", func(in *RegisterInput) { in.Password = "" }, ErrInvalidInput},
		{"bad traits", func(in *RegisterInput) { in.Traits = &traits.Vector{Playful: 11, Calm: 1, Energetic: 1, Friendly: 1, Independent: 1, Social: 1} }, traits.ErrOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newTestService()
			in := valid
			tc.modify(&in)
			if _, err := svc.Register(context.Background(), in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	in := RegisterInput{Email: "dup@test.com", Password: "x", Name: "F", Age: 25, Role: auth.RoleFoundation}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("Register #1 error: %v", err)
	}
	in.Email = "DUP@test.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService()
	in := RegisterInput{Email: "f@test.com", Password: "secret", Name: "F", Age: 25, Role: auth.RoleFoundation}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "F@test.com", "secret"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "f@test.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@test.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestService_UpdateProfile_PatchSemantics(t *testing.T) {
	svc, _ := newTestService()
	sess, err := svc.Register(context.Background(), RegisterInput{
		Email: "a@test.com", Password: "x", Name: "Ana", Age: 30, Role: auth.RoleAdopter,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	v := traits.Vector{Playful: 5, Calm: 5, Energetic: 5, Friendly: 5, Independent: 5, Social: 5}
	u, err := svc.UpdateProfile(context.Background(), sess.User.ID, UpdateProfileInput{Traits: &v})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if u.Name != "Ana" || u.Age != 30 {
		t.Fatalf("expected untouched name/age, got %q/%d", u.Name, u.Age)
	}
	if u.Traits == nil || *u.Traits != v {
		t.Fatalf("expected traits set, got %#v", u.Traits)
	}

	// el vector guardado no comparte memoria con el input
	v.Playful = 9
	if u.Traits.Playful != 5 {
		t.Fatalf("stored traits must not alias caller input")
	}

	tooYoung := 16
	if _, err := svc.UpdateProfile(context.Background(), sess.User.ID, UpdateProfileInput{Age: &tooYoung}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_PrincipalOf(t *testing.T) {
	svc, _ := newTestService()
	sess, err := svc.Register(context.Background(), RegisterInput{
		Email: "f@test.com", Password: "x", Name: "F", Age: 40, Role: auth.RoleFoundation,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	p, err := svc.PrincipalOf(context.Background(), sess.User.ID)
	if err != nil {
		t.Fatalf("PrincipalOf error: %v", err)
	}
	if p.Role != auth.RoleFoundation || p.Email != "f@test.com" {
		t.Fatalf("unexpected principal %#v", p)
	}
	if _, err := svc.PrincipalOf(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
