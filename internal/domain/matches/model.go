package matches

import "time"

// Action del adoptante sobre una mascota.
// @Enum like, pass
type Action string

const (
	ActionLike Action = "like"
	ActionPass Action = "pass"
)

func (a Action) Valid() bool {
	return a == ActionLike || a == ActionPass
}

// Status del match.
// @Enum pending, accepted, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Match es la interacción única de un adoptante con una mascota.
// Un pass también queda registrado (score 0, rejected) y no se reintenta.
type Match struct {
	ID     string
	UserID string
	PetID  string

	Score   float64
	IsMatch bool
	Status  Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
