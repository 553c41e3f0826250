package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pet-adoption-match/internal/domain/chats"
)

type ChatsRepo struct {
	db *sql.DB
}

func NewChatsRepo(db *sql.DB) *ChatsRepo {
	return &ChatsRepo{db: db}
}

// messageRow es la forma de cada mensaje dentro de chats.messages.
type messageRow struct {
	SenderID   string    `json:"sender_id"`
	SenderType string    `json:"sender_type"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

func (r *ChatsRepo) GetOrCreate(ctx context.Context, seed chats.Chat) (chats.Chat, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO chats (id, match_id, messages, created_at)
		VALUES ($1, $2, '[]'::jsonb, $3)
		ON CONFLICT (match_id) DO NOTHING
	`, seed.ID, seed.MatchID, seed.CreatedAt); err != nil {
		return chats.Chat{}, err
	}

	var (
		c   chats.Chat
		raw []byte
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, match_id, messages, created_at
		FROM chats
		WHERE match_id = $1
	`, seed.MatchID).Scan(&c.ID, &c.MatchID, &raw, &c.CreatedAt)
	if err != nil {
		return chats.Chat{}, err
	}

	var rows []messageRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return chats.Chat{}, fmt.Errorf("decode messages: %w", err)
	}
	c.Messages = make([]chats.Message, 0, len(rows))
	for _, m := range rows {
		c.Messages = append(c.Messages, chats.Message{
			SenderID:   m.SenderID,
			SenderType: chats.SenderType(m.SenderType),
			Message:    m.Message,
			Timestamp:  m.Timestamp,
		})
	}
	return c, nil
}

// Append concatena en una sola sentencia; Postgres serializa los
// upserts concurrentes sobre chats_match_key.
func (r *ChatsRepo) Append(ctx context.Context, seed chats.Chat, m chats.Message) error {
	payload, err := json.Marshal([]messageRow{{
		SenderID:   m.SenderID,
		SenderType: string(m.SenderType),
		Message:    m.Message,
		Timestamp:  m.Timestamp,
	}})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO chats (id, match_id, messages, created_at)
		VALUES ($1, $2, $3::jsonb, $4)
		ON CONFLICT (match_id) DO UPDATE
		SET messages = chats.messages || EXCLUDED.messages
	`, seed.ID, seed.MatchID, string(payload), seed.CreatedAt)
	return err
}
