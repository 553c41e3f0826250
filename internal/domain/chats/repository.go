package chats

import "context"

type Repository interface {
	// GetOrCreate inserta seed si no existe un chat para seed.MatchID y
	// devuelve el guardado. Idempotente.
	GetOrCreate(ctx context.Context, seed Chat) (Chat, error)

	// Append agrega m al chat de seed.MatchID, creándolo si falta.
	// Atómico: envíos concurrentes nunca pierden mensajes.
	Append(ctx context.Context, seed Chat, m Message) error
}
