package chats

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/middleware"
	"pet-adoption-match/internal/platform/httpjson"
)

func RegisterRoutes(r chi.Router, svc *Service, hub *Hub) {
	r.Route("/chat/{matchID}", func(cr chi.Router) {
		cr.Get("/", getChatHandler(svc))
		cr.Post("/messages", sendMessageHandler(svc))
		if hub != nil {
			cr.Get("/ws", streamHandler(svc, hub))
		}
	})
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type messageResponse struct {
	SenderID   string     `json:"sender_id"`
	SenderType SenderType `json:"sender_type"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}

type chatResponse struct {
	ID        string            `json:"id"`
	MatchID   string            `json:"match_id"`
	Messages  []messageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
}

// getChatHandler godoc
// @Summary Chat del match
// @Description Lo crea vacío en la primera lectura.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param matchID path string true "Match ID"
// @Success 200 {object} chatResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /chat/{matchID} [get]
func getChatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		c, err := svc.Get(r.Context(), actor, chi.URLParam(r, "matchID"))
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, toChatResponse(c))
	}
}

// sendMessageHandler godoc
// @Summary Enviar mensaje
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param matchID path string true "Match ID"
// @Param payload body sendMessageRequest true "Mensaje"
// @Success 200 {object} messageResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /chat/{matchID}/messages [post]
func sendMessageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req sendMessageRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.DecodeError(w, err)
			return
		}

		msg, err := svc.Send(r.Context(), actor, chi.URLParam(r, "matchID"), req.Message)
		if err != nil {
			writeError(w, err)
			return
		}

		httpjson.Write(w, http.StatusOK, toMessageResponse(msg))
	}
}

// streamHandler godoc
// @Summary Mensajes nuevos en vivo (WebSocket)
// @Description El browser puede mandar el token como ?token=. Sin replay ni garantía de entrega.
// @Tags chat
// @Security BearerAuth
// @Param matchID path string true "Match ID"
// @Router /chat/{matchID}/ws [get]
func streamHandler(svc *Service, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetPrincipal(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		matchID, err := svc.Authorize(r.Context(), actor, chi.URLParam(r, "matchID"))
		if err != nil {
			writeError(w, err)
			return
		}

		hub.Serve(w, r, matchID, actor)
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		SenderID:   m.SenderID,
		SenderType: m.SenderType,
		Message:    m.Message,
		Timestamp:  m.Timestamp,
	}
}

func toChatResponse(c Chat) chatResponse {
	msgs := make([]messageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, toMessageResponse(m))
	}
	return chatResponse{
		ID:        c.ID,
		MatchID:   c.MatchID,
		Messages:  msgs,
		CreatedAt: c.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEmptyMessage) {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	matches.WriteError(w, err)
}
