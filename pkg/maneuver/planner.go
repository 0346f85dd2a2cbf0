package maneuver

import (
	"math"

	"github.com/aarondl/opt/null"

	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils"
)

const (
	DefaultSpecificImpulse = 300.0 // s
	DefaultStandardGravity = 9.81  // m/s^2
	// thrust = mass * delta-v / thrustScale
	thrustScale = 20.0
	// baseline for the new semi-major axis estimate
	baselineVelocity = 7.8   // km/s
	baselineRadius   = 7.0e6 // m
)

type (
	// Plan is the recommended avoidance maneuver. Absent values are encoded as null.
	Plan struct {
		ThrustNeeded     float64           `json:"thrust_needed"`       // N
		FuelUsed         float64           `json:"fuel_used"`           // kg
		AdjustmentAngle  float64           `json:"adjustment_angle"`    // degrees [0,360)
		ManeuverTime     null.Val[float64] `json:"maneuver_time"`       // s
		NewSemiMajorAxis null.Val[float64] `json:"new_semi_major_axis"` // km
	}
	Planner struct {
		isp float64
		g   float64
	}
	Option func(*Planner)
)

func WithSpecificImpulse(isp float64) Option {
	return func(p *Planner) {
		p.isp = isp
	}
}

func WithStandardGravity(g float64) Option {
	return func(p *Planner) {
		p.g = g
	}
}

func NewPlanner(opts ...Option) *Planner {
	ret := &Planner{isp: DefaultSpecificImpulse, g: DefaultStandardGravity}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ZeroPlan is returned whenever no maneuver is required or possible.
func ZeroPlan() Plan {
	return Plan{}
}

// DeltaV selects the velocity change for an impact area.
func DeltaV(area collision.ImpactArea, relVelocity float64) float64 {
	switch area {
	case collision.HighImpact:
		return relVelocity
	case collision.MediumImpact:
		return relVelocity / 2
	default:
		return 0
	}
}

// Plan computes thrust, fuel (rocket equation), escape angle, duration and
// resulting semi-major axis for a target of the given mass (kg).
//
//nolint:whitespace // can't make both editor and linter happy
func (p *Planner) Plan(
	area collision.ImpactArea, relVelocity float64, relVector [2]float64, mass float64,
) Plan {
	if area != collision.HighImpact && area != collision.MediumImpact {
		return ZeroPlan()
	}
	dv := DeltaV(area, relVelocity)
	if mass <= 0 || dv <= 0 || p.isp <= 0 || p.g <= 0 {
		return ZeroPlan()
	}

	thrust := mass * dv / thrustScale
	finalMass := mass * math.Exp(-dv/(p.isp*p.g))
	fuel := mass - finalMass
	twRatio := thrust / (mass * p.g)

	ret := Plan{
		ThrustNeeded:     utils.Round2(thrust),
		FuelUsed:         utils.Round2(fuel),
		AdjustmentAngle:  utils.Round2(EscapeAngle(relVector)),
		NewSemiMajorAxis: NewSemiMajorAxis(baselineVelocity, dv, baselineRadius),
	}
	if twRatio > 0 {
		if t := dv / (twRatio * p.g); t != 0 {
			ret.ManeuverTime = null.From(utils.Round2(t))
		}
	}
	return ret
}

// EscapeAngle is the direction of vec in degrees, normalized to [0,360).
func EscapeAngle(vec [2]float64) float64 {
	angle := math.Mod(math.Atan2(vec[1], vec[0])*180/math.Pi, 360)
	if angle < 0 {
		angle += 360
	}
	if angle >= 360 {
		angle = 0
	}
	return angle
}

// NewSemiMajorAxis inverts the vis-viva equation for the velocity v+dv at
// radius r (m). The result is in km, absent if the computation is undefined.
func NewSemiMajorAxis(v, dv, r float64) null.Val[float64] {
	vFinal := v + dv
	denom := 2/r - (vFinal*vFinal)/orbit.Mu
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return null.Val[float64]{}
	}
	a := orbit.Mu / denom / 1000
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return null.Val[float64]{}
	}
	return null.From(utils.Round2(a))
}
