package traits

import "math"

const (
	// MaxTotalDiff = 6 atributos * diferencia máxima 9.
	MaxTotalDiff = Dimensions * (MaxValue - MinValue)

	// MatchThreshold es inclusivo: 70.0 ya es match.
	MatchThreshold = 70.0
)

// TotalDiff suma las diferencias absolutas por atributo (0..54).
func TotalDiff(a, b Vector) int {
	av, bv := a.Values(), b.Values()

	total := 0
	for i := range av {
		d := av[i] - bv[i]
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

// Score devuelve la similitud en porcentaje, redondeada a 2 decimales.
// Ambos vectores deben estar validados.
func Score(a, b Vector) float64 {
	similarity := (1 - float64(TotalDiff(a, b))/float64(MaxTotalDiff)) * 100
	return math.Round(similarity*100) / 100
}

func IsMatch(score float64) bool {
	return score >= MatchThreshold
}
