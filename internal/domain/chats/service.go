package chats

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption-match/internal/domain/access"
	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/platform/logger"
	"pet-adoption-match/internal/platform/observability"
	"pet-adoption-match/internal/ports/auth"
)

var (
	ErrEmptyMessage = errors.New("message must not be empty")
)

// PartyAuthorizer lo cumple *matches.Service.
type PartyAuthorizer interface {
	AuthorizeParty(ctx context.Context, actor auth.Principal, matchID string) (matches.Match, access.Party, error)
}

// Publisher recibe los mensajes ya persistidos (el Hub del WebSocket).
type Publisher interface {
	Publish(ctx context.Context, matchID string, m Message)
}

type Service struct {
	repo    Repository
	matches PartyAuthorizer
	pub     Publisher
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, m PartyAuthorizer, pub Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		matches: m,
		pub:     pub,
		log:     log.With(map[string]any{"component": "chats"}),
		now:     time.Now,
	}
}

// Get devuelve el chat del match, creándolo si todavía no existe.
func (s *Service) Get(ctx context.Context, actor auth.Principal, matchID string) (Chat, error) {
	m, _, err := s.matches.AuthorizeParty(ctx, actor, matchID)
	if err != nil {
		return Chat{}, err
	}
	return s.repo.GetOrCreate(ctx, s.seed(m.ID))
}

// Send agrega un mensaje etiquetado con el lado del match del actor.
func (s *Service) Send(ctx context.Context, actor auth.Principal, matchID, text string) (Message, error) {
	m, party, err := s.matches.AuthorizeParty(ctx, actor, matchID)
	if err != nil {
		return Message{}, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	msg := Message{
		SenderID:   actor.ID,
		SenderType: senderOf(party),
		Message:    text,
		Timestamp:  s.now(),
	}
	if err := s.repo.Append(ctx, s.seed(m.ID), msg); err != nil {
		return Message{}, err
	}

	observability.ChatMessages.Inc()
	s.log.Debug("chat message appended", map[string]any{
		"match_id":    m.ID,
		"sender_id":   msg.SenderID,
		"sender_type": string(msg.SenderType),
	})

	if s.pub != nil {
		s.pub.Publish(ctx, m.ID, msg)
	}
	return msg, nil
}

// Authorize la usa el upgrade del WebSocket antes de suscribir.
func (s *Service) Authorize(ctx context.Context, actor auth.Principal, matchID string) (string, error) {
	m, _, err := s.matches.AuthorizeParty(ctx, actor, matchID)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (s *Service) seed(matchID string) Chat {
	return Chat{
		ID:        uuid.NewString(),
		MatchID:   matchID,
		Messages:  []Message{},
		CreatedAt: s.now(),
	}
}
