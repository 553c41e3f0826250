package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/ports/auth"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo   Repository
	tokens auth.TokenIssuer
	now    func() time.Time

	hashCost int
}

func NewService(repo Repository, tokens auth.TokenIssuer) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// Session es la respuesta de register/login.
type Session struct {
	Token string
	User  User
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Age      int
	Role     auth.Role
	Traits   *traits.Vector
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if email == "" || name == "" || in.Password == "" {
		return Session{}, ErrInvalidInput
	}
	if in.Age < MinAge {
		return Session{}, fmt.Errorf("%w: age must be at least %d", ErrInvalidInput, MinAge)
	}
	if !in.Role.Valid() {
		return Session{}, fmt.Errorf("%w: user_type must be foundation or adopter", ErrInvalidInput)
	}
	if in.Traits != nil {
		if err := in.Traits.Validate(); err != nil {
			return Session{}, err
		}
	}

	// Chequeo rápido; el repo también rechaza emails duplicados.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Age:          in.Age,
		Role:         in.Role,
		Traits:       copyTraits(in.Traits),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return Session{}, err
	}
	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	// nil = no tocar
	Name   *string
	Age    *int
	Traits *traits.Vector
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (User, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		u.Name = name
	}
	if in.Age != nil {
		if *in.Age < MinAge {
			return User{}, fmt.Errorf("%w: age must be at least %d", ErrInvalidInput, MinAge)
		}
		u.Age = *in.Age
	}
	if in.Traits != nil {
		if err := in.Traits.Validate(); err != nil {
			return User{}, err
		}
		// Se reemplaza el vector completo, nunca se muta el anterior.
		u.Traits = copyTraits(in.Traits)
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) session(u User) (Session, error) {
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: u}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func copyTraits(v *traits.Vector) *traits.Vector {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
