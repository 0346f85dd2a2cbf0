package orbit

import "math"

// Velocities computes perigee and apogee speed (km/s) with the vis-viva
// equation for an orbit with semi-major axis aKm (km) and eccentricity ecc.
func Velocities(aKm, ecc float64) (vPerigee, vApogee float64, err error) {
	if err = validateShape(aKm, ecc); err != nil {
		return 0, 0, err
	}
	aM := aKm * 1000
	vPerigee, err = visViva(aM*(1-ecc), aM)
	if err != nil {
		return 0, 0, err
	}
	vApogee, err = visViva(aM*(1+ecc), aM)
	if err != nil {
		return 0, 0, err
	}
	return vPerigee / 1000, vApogee / 1000, nil
}

// visViva returns the speed in m/s at radius r on an orbit with semi-major axis a (both m).
func visViva(r, a float64) (float64, error) {
	sq := Mu * (2/r - 1/a)
	if sq < 0 || math.IsNaN(sq) || math.IsInf(sq, 0) {
		return 0, &ValidationError{Field: "radius", Value: r, Reason: "no real orbital speed"}
	}
	return math.Sqrt(sq), nil
}
