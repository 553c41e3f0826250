package traits

import (
	"errors"
	"fmt"
)

const (
	MinValue = 1
	MaxValue = 10

	// Dimensions es la cantidad fija de atributos de personalidad.
	Dimensions = 6
)

var (
	ErrOutOfRange = errors.New("trait out of range")
)

// Names en orden canónico. Se comparte entre adoptantes y mascotas.
var Names = [Dimensions]string{
	"playful",
	"calm",
	"energetic",
	"friendly",
	"independent",
	"social",
}

// Vector es el perfil de personalidad (1..10 por atributo).
// Se usa por valor y no se muta una vez asociado a un User o Pet.
type Vector struct {
	Playful     int `json:"playful"`
	Calm        int `json:"calm"`
	Energetic   int `json:"energetic"`
	Friendly    int `json:"friendly"`
	Independent int `json:"independent"`
	Social      int `json:"social"`
}

func New(playful, calm, energetic, friendly, independent, social int) (Vector, error) {
	v := Vector{
		Playful:     playful,
		Calm:        calm,
		Energetic:   energetic,
		Friendly:    friendly,
		Independent: independent,
		Social:      social,
	}
	if err := v.Validate(); err != nil {
		return Vector{}, err
	}
	return v, nil
}

// FromValues construye un Vector desde el orden canónico de Names.
func FromValues(vals [Dimensions]int) (Vector, error) {
	return New(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
}

// Validate exige los seis atributos dentro de [1,10].
// Un atributo ausente en el JSON llega como 0 y falla aquí.
func (v Vector) Validate() error {
	for i, x := range v.Values() {
		if x < MinValue || x > MaxValue {
			return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrOutOfRange, Names[i], MinValue, MaxValue, x)
		}
	}
	return nil
}

func (v Vector) Values() [Dimensions]int {
	return [Dimensions]int{
		v.Playful,
		v.Calm,
		v.Energetic,
		v.Friendly,
		v.Independent,
		v.Social,
	}
}

// Floats devuelve el vector para columnas vector(6).
func (v Vector) Floats() []float32 {
	vals := v.Values()
	out := make([]float32, 0, Dimensions)
	for _, x := range vals {
		out = append(out, float32(x))
	}
	return out
}
