package appointments

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/domain/pets"
	"pet-adoption-match/internal/domain/users"
	"pet-adoption-match/internal/middleware"
	"pet-adoption-match/internal/platform/httpjson"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Put("/{appointmentID}/status", updateStatusHandler(svc))
	})
}

type createAppointmentRequest struct {
	MatchID string `json:"match_id" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string `json:"time" validate:"required,datetime=15:04"`
}

type updateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type enrichedResponse struct {
	appointmentResponse
	Match *matches.MatchResponse `json:"match"`
	Pet   *pets.PetResponse      `json:"pet"`
	User  *users.ProfileResponse `json:"user"`
}

// createAppointmentHandler godoc
// @Summary Agendar cita sobre un match
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createAppointmentRequest true "Cita"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string "match no encontrado"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAppointmentRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		a, err := svc.Create(r.Context(), actor, CreateInput{
			MatchID: req.MatchID,
			Date:    req.Date,
			Time:    req.Time,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Citas del usuario
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} enrichedResponse
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.List(r.Context(), actor)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]enrichedResponse, 0, len(items))
		for _, e := range items {
			resp := enrichedResponse{appointmentResponse: toAppointmentResponse(e.Appointment)}
			if e.Match != nil {
				m := matches.ToMatchResponse(e.Match.Match)
				resp.Match = &m
				resp.Pet = matches.PetOrNil(e.Match.Pet)
				resp.User = matches.UserOrNil(e.Match.User)
			}
			out = append(out, resp)
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// updateStatusHandler godoc
// @Summary Cambiar estado de una cita
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param appointmentID path string true "Appointment ID"
// @Param payload body updateStatusRequest true "Nuevo estado"
// @Success 200 {object} appointmentResponse
// @Router /appointments/{appointmentID}/status [put]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateStatusRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		a, err := svc.UpdateStatus(r.Context(), actor, chi.URLParam(r, "appointmentID"), req.Status)
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		MatchID:   a.MatchID,
		Date:      a.Date,
		Time:      a.Time,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	default:
		matches.WriteError(w, err)
	}
}
