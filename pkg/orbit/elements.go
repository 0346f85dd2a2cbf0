package orbit

import (
	"fmt"
	"math"
)

// Mu is the gravitational parameter of Earth in m^3/s^2.
const Mu = 3.986e14

// Elements are the orbital parameters of a satellite or debris object.
// Distances in km, angles in degrees, velocities in km/s.
type Elements struct {
	SemiMajorAxis   float64 `json:"semiMajorAxis"   yaml:"semiMajorAxis"`
	Eccentricity    float64 `json:"eccentricity"    yaml:"eccentricity"`
	Inclination     float64 `json:"inclination"     yaml:"inclination"`
	RaOfAscNode     float64 `json:"raOfAscNode"     yaml:"raOfAscNode"`
	ArgOfPericenter float64 `json:"argOfPericenter" yaml:"argOfPericenter"`
	MeanAnomaly     float64 `json:"meanAnomaly"     yaml:"meanAnomaly"`
	MeanMotion      float64 `json:"meanMotion"      yaml:"meanMotion"`
	VelocityPerigee float64 `json:"velocityPerigee" yaml:"velocityPerigee"`
	VelocityApogee  float64 `json:"velocityApogee"  yaml:"velocityApogee"`
}

type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the elements used by the physics computations.
func (e Elements) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"semiMajorAxis", e.SemiMajorAxis},
		{"eccentricity", e.Eccentricity},
		{"inclination", e.Inclination},
		{"velocityPerigee", e.VelocityPerigee},
		{"velocityApogee", e.VelocityApogee},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ValidationError{Field: f.name, Value: f.value, Reason: "must be finite"}
		}
	}
	if err := validateShape(e.SemiMajorAxis, e.Eccentricity); err != nil {
		return err
	}
	if e.Inclination < 0 || e.Inclination >= 360 {
		return &ValidationError{
			Field: "inclination", Value: e.Inclination, Reason: "must be in [0,360)",
		}
	}
	if e.VelocityPerigee < 0 || e.VelocityApogee < 0 {
		return &ValidationError{
			Field:  "velocity",
			Value:  math.Min(e.VelocityPerigee, e.VelocityApogee),
			Reason: "must not be negative",
		}
	}
	return nil
}

func validateShape(aKm, ecc float64) error {
	if math.IsNaN(aKm) || aKm <= 0 {
		return &ValidationError{Field: "semiMajorAxis", Value: aKm, Reason: "must be > 0"}
	}
	if math.IsNaN(ecc) || ecc < 0 || ecc >= 1 {
		return &ValidationError{Field: "eccentricity", Value: ecc, Reason: "must be in [0,1)"}
	}
	return nil
}

// FillVelocities returns a copy where zero perigee/apogee velocities are
// replaced by values derived from the semi-major axis and eccentricity.
// If either velocity is zero both are recomputed.
func (e Elements) FillVelocities() (Elements, error) {
	if e.VelocityPerigee != 0 && e.VelocityApogee != 0 {
		return e, nil
	}
	vp, va, err := Velocities(e.SemiMajorAxis, e.Eccentricity)
	if err != nil {
		return e, err
	}
	e.VelocityPerigee = vp
	e.VelocityApogee = va
	return e, nil
}

// Velocity returns the (perigee, apogee) velocity pair.
func (e Elements) Velocity() [2]float64 {
	return [2]float64{e.VelocityPerigee, e.VelocityApogee}
}
