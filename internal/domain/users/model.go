package users

import (
	"time"

	"pet-adoption-match/internal/domain/traits"
	"pet-adoption-match/internal/ports/auth"
)

// User es una cuenta de fundación o adoptante.
// Traits es opcional, pero un adoptante lo necesita para dar like.
type User struct {
	ID           string
	Email        string
	PasswordHash string

	Name string
	Age  int
	Role auth.Role

	Traits *traits.Vector

	CreatedAt time.Time
	UpdatedAt time.Time
}

const MinAge = 18
