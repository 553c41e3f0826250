package auth

import "time"

type Role string

const (
	RoleFoundation Role = "foundation"
	RoleAdopter    Role = "adopter"
)

func (r Role) Valid() bool {
	return r == RoleFoundation || r == RoleAdopter
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Principal es el usuario autenticado que actúa sobre un request.
type Principal struct {
	ID    string
	Email string
	Role  Role
}
