// Package scoring holds the normalized-distance logistic used by the damage
// and collision classifiers.
package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultOffset is the distance at which the logistic yields 0.5.
const DefaultOffset = 2.0

// Scales normalizes differences in semi-major axis (km), eccentricity and
// inclination (degrees).
type Scales struct {
	SemiMajorAxis float64
	Eccentricity  float64
	Inclination   float64
}

// DefaultScales are the normalization divisors shared by both classifiers.
var DefaultScales = Scales{SemiMajorAxis: 100, Eccentricity: 0.01, Inclination: 5}

// Distance returns the Euclidean norm of the scaled differences.
func (s Scales) Distance(da, de, di float64) float64 {
	return floats.Norm([]float64{
		da / s.SemiMajorAxis,
		de / s.Eccentricity,
		di / s.Inclination,
	}, 2)
}

// Logistic maps a distance to a probability 1/(1+e^(distance-offset)),
// clipped to [0,1].
func Logistic(distance, offset float64) float64 {
	return clip(1/(1+math.Exp(distance-offset)), 0, 1)
}

func clip(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
