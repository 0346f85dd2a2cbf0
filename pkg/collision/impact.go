package collision

type ImpactArea string

const (
	HighImpact   ImpactArea = "High Impact Area"
	MediumImpact ImpactArea = "Medium Impact Area"
	LowImpact    ImpactArea = "Low Impact Area"
)

const (
	DefaultDensity = 0.6
	denseDebris    = 0.8
	// relative velocity limits in km/s
	highVelocity   = 2.0
	mediumVelocity = 1.0
)

// Thresholds are the probability limits for high and medium impact areas.
type Thresholds struct {
	High float64
	Low  float64
}

// ThresholdsFor returns the probability thresholds for the debris density.
func ThresholdsFor(density float64) Thresholds {
	if density > denseDebris {
		return Thresholds{High: 0.7, Low: 0.4}
	}
	return Thresholds{High: 0.6, Low: 0.3}
}

// Classify evaluates the rules in order: high, medium, low.
func (t Thresholds) Classify(prob, relVelocity float64) ImpactArea {
	switch {
	case prob > t.High && relVelocity > highVelocity:
		return HighImpact
	case prob > t.Low && relVelocity > mediumVelocity:
		return MediumImpact
	default:
		return LowImpact
	}
}

func ClassifyImpact(prob, relVelocity, density float64) ImpactArea {
	return ThresholdsFor(density).Classify(prob, relVelocity)
}
