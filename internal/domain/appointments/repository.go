package appointments

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	ListByMatches(ctx context.Context, matchIDs []string) ([]Appointment, error)
}
