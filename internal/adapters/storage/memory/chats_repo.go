package memory

import (
	"context"
	"sync"

	"pet-adoption-match/internal/domain/chats"
)

type chatRepo struct {
	mu      sync.RWMutex
	byMatch map[string]chats.Chat
}

func NewChatRepo() chats.Repository {
	return &chatRepo{
		byMatch: make(map[string]chats.Chat),
	}
}

func (r *chatRepo) GetOrCreate(ctx context.Context, seed chats.Chat) (chats.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byMatch[seed.MatchID]; ok {
		return cloneChat(c), nil
	}
	seed.Messages = append([]chats.Message{}, seed.Messages...)
	r.byMatch[seed.MatchID] = seed
	return cloneChat(seed), nil
}

func (r *chatRepo) Append(ctx context.Context, seed chats.Chat, m chats.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byMatch[seed.MatchID]
	if !ok {
		c = seed
		c.Messages = nil
	}
	c.Messages = append(c.Messages, m)
	r.byMatch[seed.MatchID] = c
	return nil
}

func cloneChat(c chats.Chat) chats.Chat {
	c.Messages = append([]chats.Message{}, c.Messages...)
	return c
}
