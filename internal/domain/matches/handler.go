package matches

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/pets"
	"pet-adoption-match/internal/domain/users"
	"pet-adoption-match/internal/middleware"
	"pet-adoption-match/internal/platform/httpjson"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/matches", func(mr chi.Router) {
		mr.Post("/like", swipeHandler(svc))
		mr.Get("/", listMatchesHandler(svc))
		mr.Put("/{matchID}/accept", acceptHandler(svc))
	})
}

type swipeRequest struct {
	PetID  string `json:"pet_id" validate:"required"`
	Action Action `json:"action" validate:"required,oneof=like pass"`
}

// MatchResponse se reutiliza en el listado de citas.
type MatchResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PetID      string    `json:"pet_id"`
	MatchScore float64   `json:"match_score"`
	IsMatch    bool      `json:"is_match"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type enrichedResponse struct {
	MatchResponse
	Pet  *pets.PetResponse      `json:"pet"`
	User *users.ProfileResponse `json:"user"`
}

type acceptResponse struct {
	Message string        `json:"message"`
	Match   MatchResponse `json:"match"`
}

// swipeHandler godoc
// @Summary Like o pass sobre una mascota
// @Description Calcula la compatibilidad (like) y registra la interacción. Una sola por par adoptante/mascota.
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body swipeRequest true "Swipe"
// @Success 200 {object} MatchResponse
// @Failure 400 {object} map[string]string "perfil incompleto / interacción previa"
// @Failure 403 {object} map[string]string "solo adoptantes"
// @Failure 404 {object} map[string]string "mascota no encontrada"
// @Router /matches/like [post]
func swipeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req swipeRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		m, err := svc.Swipe(r.Context(), actor, req.PetID, req.Action)
		if err != nil {
			WriteError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToMatchResponse(m))
	}
}

// listMatchesHandler godoc
// @Summary Matches confirmados
// @Description Adoptante: los propios. Fundación: los de sus mascotas. Incluye pet y user.
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} enrichedResponse
// @Router /matches [get]
func listMatchesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.List(r.Context(), actor)
		if err != nil {
			WriteError(w, err)
			return
		}

		out := make([]enrichedResponse, 0, len(items))
		for _, e := range items {
			out = append(out, enrichedResponse{
				MatchResponse: ToMatchResponse(e.Match),
				Pet:           PetOrNil(e.Pet),
				User:          UserOrNil(e.User),
			})
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// acceptHandler godoc
// @Summary Aceptar match
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param matchID path string true "Match ID"
// @Success 200 {object} acceptResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /matches/{matchID}/accept [put]
func acceptHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		m, err := svc.Accept(r.Context(), actor, chi.URLParam(r, "matchID"))
		if err != nil {
			WriteError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, acceptResponse{
			Message: "match accepted",
			Match:   ToMatchResponse(m),
		})
	}
}

func ToMatchResponse(m Match) MatchResponse {
	return MatchResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		PetID:      m.PetID,
		MatchScore: m.Score,
		IsMatch:    m.IsMatch,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// PetOrNil y UserOrNil los usan también los joins de citas.
func PetOrNil(p *pets.Pet) *pets.PetResponse {
	if p == nil {
		return nil
	}
	r := pets.ToPetResponse(*p)
	return &r
}

func UserOrNil(u *users.User) *users.ProfileResponse {
	if u == nil {
		return nil
	}
	r := users.ToProfileResponse(*u)
	return &r
}

// WriteError mapea errores de matches y del guard. Lo reusan citas y chat.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, access.ErrForbidden):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPetNotFound),
		errors.Is(err, users.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicateInteraction),
		errors.Is(err, access.ErrIncompleteProfile):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	default:
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
