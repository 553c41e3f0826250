package pets

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/middleware"
	"pet-adoption-match/internal/platform/httpjson"
	"pet-adoption-match/internal/ports/auth"
)

// AvailableFeed arma el listado para un adoptante (lo implementa matches).
type AvailableFeed interface {
	Available(ctx context.Context, actor auth.Principal) ([]Pet, error)
}

func RegisterRoutes(r chi.Router, svc *Service, feed AvailableFeed) {
	r.Route("/pets", func(pr chi.Router) {
		// Fundación
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		// Adoptante: mascotas sin interacción previa
		pr.Get("/available/list", listAvailableHandler(feed))

		// Perfil de mascota (cualquier usuario autenticado)
		pr.Get("/{petID}", getPetHandler(svc))

		// Solo la fundación dueña
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name   string        `json:"name" validate:"required"`
	Breed  string        `json:"breed" validate:"required"`
	Age    int           `json:"age" validate:"gte=0"`
	Traits traits.Vector `json:"personality_traits" validate:"required"`
	Images []string      `json:"images"`
}

type updatePetRequest struct {
	Name   *string        `json:"name"`
	Breed  *string        `json:"breed"`
	Age    *int           `json:"age" validate:"omitempty,gte=0"`
	Traits *traits.Vector `json:"personality_traits"`
	Images *[]string      `json:"images"`
	Status *Status        `json:"status" validate:"omitempty,oneof=available adopted"`
}

// PetResponse se reutiliza en los joins de matches y citas.
type PetResponse struct {
	ID           string        `json:"id"`
	FoundationID string        `json:"foundation_id"`
	Name         string        `json:"name"`
	Breed        string        `json:"breed"`
	Age          int           `json:"age"`
	Traits       traits.Vector `json:"personality_traits"`
	Images       []string      `json:"images"`
	Status       Status        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// createPetHandler godoc
// @Summary Publicar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createPetRequest true "Mascota"
// @Success 200 {object} PetResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string "solo fundaciones"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		p, err := svc.Create(r.Context(), actor, CreateInput{
			Name:   req.Name,
			Breed:  req.Breed,
			Age:    req.Age,
			Traits: req.Traits,
			Images: req.Images,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Mascotas de la fundación
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PetResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListMine(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToPetResponses(items))
	}
}

// listAvailableHandler godoc
// @Summary Mascotas disponibles para el adoptante
// @Description Excluye las mascotas con like o pass previo. Ordenadas por compatibilidad, máximo 100.
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} PetResponse
// @Router /pets/available/list [get]
func listAvailableHandler(feed AvailableFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := feed.Available(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToPetResponses(items))
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		httpjson.Write(w, http.StatusOK, ToPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description PATCH semántico: los campos ausentes no se tocan.
// @Tags pets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param petID path string true "Pet ID"
// @Param payload body updatePetRequest true "Campos a cambiar"
// @Success 200 {object} PetResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updatePetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		updated, err := svc.Update(r.Context(), actor, chi.URLParam(r, "petID"), UpdateInput{
			Name:   req.Name,
			Breed:  req.Breed,
			Age:    req.Age,
			Traits: req.Traits,
			Images: req.Images,
			Status: req.Status,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToPetResponse(updated))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), actor, chi.URLParam(r, "petID")); err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, messageResponse{Message: "pet deleted"})
	}
}

func ToPetResponse(p Pet) PetResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return PetResponse{
		ID:           p.ID,
		FoundationID: p.FoundationID,
		Name:         p.Name,
		Breed:        p.Breed,
		Age:          p.Age,
		Traits:       p.Traits,
		Images:       images,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func ToPetResponses(items []Pet) []PetResponse {
	out := make([]PetResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPetResponse(p))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrForbidden):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, traits.ErrOutOfRange):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
