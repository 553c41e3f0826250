package appointments

import "time"

// Status de la cita.
// @Enum scheduled, completed, cancelled
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment es una visita coordinada sobre un match.
// Date y Time se guardan tal cual llegan (YYYY-MM-DD, HH:MM), sin zona.
type Appointment struct {
	ID      string
	MatchID string

	Date string
	Time string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
