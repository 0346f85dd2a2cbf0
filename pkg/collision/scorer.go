package collision

import (
	"gonum.org/v1/gonum/floats"

	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
	"github.com/orbitarch/orbitarch-service-go/pkg/scoring"
)

type (
	// Assessment is the pairwise result of satellite vs. one debris object.
	Assessment struct {
		Probability      float64    // [0,1]
		RelativeVelocity float64    // km/s
		RelativeVector   [2]float64 // debris - satellite over (perigee, apogee) velocity
	}
	Scorer struct {
		Scales scoring.Scales
		Offset float64
	}
)

func NewScorer() Scorer {
	return Scorer{Scales: scoring.DefaultScales, Offset: scoring.DefaultOffset}
}

// Probability compares the shape and orientation of two orbits.
func (s Scorer) Probability(sat, obj orbit.Elements) float64 {
	d := s.Scales.Distance(
		sat.SemiMajorAxis-obj.SemiMajorAxis,
		sat.Eccentricity-obj.Eccentricity,
		sat.Inclination-obj.Inclination)
	return scoring.Logistic(d, s.Offset)
}

func (s Scorer) Score(sat, obj orbit.Elements) Assessment {
	ov, sv := obj.Velocity(), sat.Velocity()
	rel := make([]float64, 2)
	floats.SubTo(rel, ov[:], sv[:])
	return Assessment{
		Probability:      s.Probability(sat, obj),
		RelativeVelocity: floats.Norm(rel, 2),
		RelativeVector:   [2]float64{rel[0], rel[1]},
	}
}
