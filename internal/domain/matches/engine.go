package matches

import (
	"fmt"
	"strings"

	"pet-adoption-match/internal/domain/traits"
)

// Decision es el resultado puro de un swipe, antes de persistir.
type Decision struct {
	Score   float64
	IsMatch bool
	Status  Status
}

// Decide aplica el umbral de compatibilidad. No toca el store.
// pet puede ser nil en un pass: no se valida que la mascota exista.
func Decide(adopterID, petID string, action Action, adopter traits.Vector, pet *traits.Vector) (Decision, error) {
	if strings.TrimSpace(adopterID) == "" || strings.TrimSpace(petID) == "" {
		return Decision{}, fmt.Errorf("%w: adopter and pet are required", ErrInvalidInput)
	}

	switch action {
	case ActionPass:
		return Decision{Score: 0, IsMatch: false, Status: StatusRejected}, nil

	case ActionLike:
		if pet == nil {
			return Decision{}, ErrPetNotFound
		}
		score := traits.Score(adopter, *pet)
		d := Decision{Score: score, IsMatch: traits.IsMatch(score), Status: StatusRejected}
		if d.IsMatch {
			d.Status = StatusPending
		}
		return d, nil

	default:
		return Decision{}, fmt.Errorf("%w: action must be like or pass", ErrInvalidInput)
	}
}

// outcome es la etiqueta de métricas/logs.
func (d Decision) outcome(action Action) string {
	switch {
	case action == ActionPass:
		return "pass"
	case d.IsMatch:
		return "match"
	default:
		return "no_match"
	}
}
