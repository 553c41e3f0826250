package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/middleware"
	"pet-adoption-match/internal/platform/httpjson"
	"pet-adoption-match/internal/ports/auth"
)

// RegisterPublicRoutes monta register/login (sin token).
func RegisterPublicRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
	})
}

// RegisterRoutes monta el perfil propio (requiere RequireUser).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/users/profile", getProfileHandler(svc))
	r.Put("/users/profile", updateProfileHandler(svc))
}

type registerRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required"`
	Name     string         `json:"name" validate:"required"`
	Age      int            `json:"age" validate:"gte=18"`
	UserType auth.Role      `json:"user_type" validate:"required,oneof=foundation adopter"`
	Traits   *traits.Vector `json:"personality_traits"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name   *string        `json:"name"`
	Age    *int           `json:"age" validate:"omitempty,gte=18"`
	Traits *traits.Vector `json:"personality_traits"`
}

// ProfileResponse es la vista pública de un usuario (sin hash).
// Se reutiliza en los joins de matches y citas.
type ProfileResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Age       int            `json:"age"`
	UserType  auth.Role      `json:"user_type"`
	Traits    *traits.Vector `json:"personality_traits"`
	CreatedAt time.Time      `json:"created_at"`
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Description Crea una fundación o un adoptante y devuelve el token. Los adoptantes necesitan personality_traits para dar like.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} map[string]string "email registrado / validación"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		sess, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
			Age:      req.Age,
			Role:     req.UserType,
			Traits:   req.Traits,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, toSessionResponse(sess))
	}
}

// loginHandler godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} map[string]string "invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, toSessionResponse(sess))
	}
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		u, err := svc.GetByID(r.Context(), actor.ID)
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToProfileResponse(u))
	}
}

func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateProfileRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		u, err := svc.UpdateProfile(r.Context(), actor.ID, UpdateProfileInput{
			Name:   req.Name,
			Age:    req.Age,
			Traits: req.Traits,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, ToProfileResponse(u))
	}
}

func ToProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Age:       u.Age,
		UserType:  u.Role,
		Traits:    u.Traits,
		CreatedAt: u.CreatedAt,
	}
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{
		Token: s.Token,
		User:  ToProfileResponse(s.User),
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		httpjson.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, traits.ErrOutOfRange):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	default:
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
