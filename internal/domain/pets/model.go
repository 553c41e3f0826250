package pets

import (
	"time"

	"pet-adoption-match/internal/domain/traits"
)

// Status de publicación de la mascota.
// @Enum available, adopted
type Status string

const (
	StatusAvailable Status = "available"
	StatusAdopted   Status = "adopted"
)

func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusAdopted
}

// Pet es una mascota publicada por exactamente una fundación.
type Pet struct {
	ID           string
	FoundationID string

	Name  string
	Breed string
	Age   int

	Traits traits.Vector

	// URLs o base64, opacos para el servicio.
	Images []string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
