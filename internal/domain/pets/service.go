package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

// AvailableLimit es el tope fijo del feed de adopción.
const AvailableLimit = 100

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name   string
	Breed  string
	Age    int
	Traits traits.Vector
	Images []string
}

func (s *Service) Create(ctx context.Context, actor auth.Principal, in CreateInput) (Pet, error) {
	if err := access.ManagePets(actor); err != nil {
		return Pet{}, err
	}

	name := strings.TrimSpace(in.Name)
	breed := strings.TrimSpace(in.Breed)
	if name == "" || breed == "" {
		return Pet{}, fmt.Errorf("%w: name and breed are required", ErrInvalidInput)
	}
	if in.Age < 0 {
		return Pet{}, fmt.Errorf("%w: age must be >= 0", ErrInvalidInput)
	}
	if err := in.Traits.Validate(); err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		FoundationID: actor.ID,
		Name:         name,
		Breed:        breed,
		Age:          in.Age,
		Traits:       in.Traits,
		Images:       copyImages(in.Images),
		Status:       StatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListMine devuelve las mascotas de la fundación autenticada.
func (s *Service) ListMine(ctx context.Context, actor auth.Principal) ([]Pet, error) {
	if err := access.ManagePets(actor); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, actor.ID)
}

// ListByOwner sin guard, para joins de otros módulos.
func (s *Service) ListByOwner(ctx context.Context, foundationID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, foundationID)
}

// ListAvailable aplica el tope fijo; el guard lo resuelve quien arma el feed.
func (s *Service) ListAvailable(ctx context.Context, f AvailableFilter) ([]Pet, error) {
	if f.Limit <= 0 || f.Limit > AvailableLimit {
		f.Limit = AvailableLimit
	}
	return s.repo.ListAvailable(ctx, f)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name   *string
	Breed  *string
	Age    *int
	Traits *traits.Vector
	Images *[]string
	Status *Status
}

func (s *Service) Update(ctx context.Context, actor auth.Principal, petID string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if err := access.OwnPet(actor, p.FoundationID); err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Pet{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		p.Name = v
	}
	if in.Breed != nil {
		v := strings.TrimSpace(*in.Breed)
		if v == "" {
			return Pet{}, fmt.Errorf("%w: breed must not be empty", ErrInvalidInput)
		}
		p.Breed = v
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Pet{}, fmt.Errorf("%w: age must be >= 0", ErrInvalidInput)
		}
		p.Age = *in.Age
	}
	if in.Traits != nil {
		if err := in.Traits.Validate(); err != nil {
			return Pet{}, err
		}
		p.Traits = *in.Traits
	}
	if in.Images != nil {
		p.Images = copyImages(*in.Images)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Pet{}, fmt.Errorf("%w: status must be available or adopted", ErrInvalidInput)
		}
		p.Status = *in.Status
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Principal, petID string) error {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return err
	}
	if err := access.OwnPet(actor, p.FoundationID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

func copyImages(in []string) []string {
	out := make([]string, 0, len(in))
	for _, img := range in {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}
