package damage

import (
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
	"github.com/orbitarch/orbitarch-service-go/pkg/scoring"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils"
)

type Category string

const (
	HighDamage  Category = "High Damage"
	MinorDamage Category = "Minor Damage"
	NoDamage    Category = "No Damage"
)

const UnknownPlane = "Unknown"

type (
	// Reference is the orbit the satellite is compared against.
	Reference struct {
		SemiMajorAxis float64
		Eccentricity  float64
		Inclination   float64
	}
	Assessment struct {
		Plane       string
		Damage      Category
		Probability float64 // percentage, 2 decimals
	}
	planeBin struct {
		name   string
		lo, hi float64
	}
	Classifier struct {
		reference Reference
		scales    scoring.Scales
		offset    float64
		// thresholds of the damage rule
		highProb     float64
		highVelocity float64
		minorProb    float64
	}
	Option func(*Classifier)
)

var DefaultReference = Reference{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 10}

// half-open [lo,hi) inclination bins in degrees
var planes = []planeBin{
	{"Plane 1", 0, 10},
	{"Plane 2", 10, 30},
	{"Plane 3", 30, 50},
	{"Plane 4", 50, 70},
	{"Plane 5", 70, 90},
	{"Plane 6", 90, 100},
}

func WithReference(ref Reference) Option {
	return func(c *Classifier) {
		c.reference = ref
	}
}

func WithScales(s scoring.Scales) Option {
	return func(c *Classifier) {
		c.scales = s
	}
}

func WithOffset(offset float64) Option {
	return func(c *Classifier) {
		c.offset = offset
	}
}

func NewClassifier(opts ...Option) *Classifier {
	ret := &Classifier{
		reference:    DefaultReference,
		scales:       scoring.DefaultScales,
		offset:       scoring.DefaultOffset,
		highProb:     0.8,
		highVelocity: 7.5,
		minorProb:    0.5,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Plane maps an inclination (degrees) to its orbital plane bucket.
func Plane(inclination float64) string {
	for _, p := range planes {
		if p.lo <= inclination && inclination < p.hi {
			return p.name
		}
	}
	return UnknownPlane
}

// Probability is the clipped [0,1] logistic of the distance to the reference orbit.
func (c *Classifier) Probability(el orbit.Elements) float64 {
	d := c.scales.Distance(
		el.SemiMajorAxis-c.reference.SemiMajorAxis,
		el.Eccentricity-c.reference.Eccentricity,
		el.Inclination-c.reference.Inclination)
	return scoring.Logistic(d, c.offset)
}

// Category applies the damage rule to a probability and the mean of the
// perigee and apogee velocities (km/s).
func (c *Classifier) Category(prob, avgVelocity float64) Category {
	switch {
	case prob > c.highProb && avgVelocity > c.highVelocity:
		return HighDamage
	case prob > c.minorProb:
		return MinorDamage
	default:
		return NoDamage
	}
}

// Classify fills missing velocities and returns plane, damage category and
// the displayed probability.
func (c *Classifier) Classify(el orbit.Elements) (*Assessment, error) {
	el, err := el.FillVelocities()
	if err != nil {
		return nil, err
	}
	prob := c.Probability(el)
	avg := (el.VelocityPerigee + el.VelocityApogee) / 2
	return &Assessment{
		Plane:       Plane(el.Inclination),
		Damage:      c.Category(prob, avg),
		Probability: DisplayProbability(prob),
	}, nil
}

// DisplayProbability converts to a percentage with two decimals.
// Values above 1 are treated as already scaled and divided by 100 first.
// Probability already clips to [0,1] so the rescale never triggers there.
func DisplayProbability(prob float64) float64 {
	fixed := prob
	if prob > 1 {
		fixed = prob / 100
	}
	return utils.Round2(fixed * 100)
}
