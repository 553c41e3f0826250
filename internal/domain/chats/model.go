package chats

import (
	"time"

	"pet-adoption-match/internal/domain/access"
)

// SenderType indica el lado del match que escribió.
// @Enum user, foundation
type SenderType string

const (
	SenderUser       SenderType = "user"
	SenderFoundation SenderType = "foundation"
)

func senderOf(p access.Party) SenderType {
	if p == access.PartyFoundation {
		return SenderFoundation
	}
	return SenderUser
}

type Message struct {
	SenderID   string
	SenderType SenderType
	Message    string
	Timestamp  time.Time
}

// Chat es único por match y se crea en la primera lectura o envío.
// Messages es append-only, en orden de llegada.
type Chat struct {
	ID       string
	MatchID  string
	Messages []Message

	CreatedAt time.Time
}
