package decision

import (
	"context"

	"github.com/aarondl/opt/null"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/maneuver"
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
	"github.com/orbitarch/orbitarch-service-go/pkg/utils"
)

type (
	// Recommendation is the "recommendations" object of a prediction.
	Recommendation struct {
		ThrustNeeded         float64              `json:"thrust_needed"`
		FuelUsed             float64              `json:"fuel_used"`
		AdjustmentAngle      float64              `json:"adjustment_angle"`
		ManeuverTime         null.Val[float64]    `json:"maneuver_time"`
		NewSemiMajorAxis     null.Val[float64]    `json:"new_semi_major_axis"`
		ImpactArea           collision.ImpactArea `json:"impact_area"`
		CollisionProbability float64              `json:"collision_probability"`
		RelativeVelocity     float64              `json:"relative_velocity"`

		// Debris is the matched record, nil for the low result.
		Debris *debris.Record `json:"-"`
	}
	Evaluator struct {
		table   *debris.Table
		density float64
		scorer  collision.Scorer
		planner *maneuver.Planner
		tracer  trace.Tracer
		l       *log.Logger
	}
	Option func(*Evaluator)
)

func WithDensity(density float64) Option {
	return func(e *Evaluator) {
		e.density = density
	}
}

func WithScorer(s collision.Scorer) Option {
	return func(e *Evaluator) {
		e.scorer = s
	}
}

func WithPlanner(p *maneuver.Planner) Option {
	return func(e *Evaluator) {
		e.planner = p
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Evaluator) {
		e.l = l
	}
}

func NewEvaluator(table *debris.Table, opts ...Option) *Evaluator {
	ret := &Evaluator{
		table:   table,
		density: collision.DefaultDensity,
		scorer:  collision.NewScorer(),
		planner: maneuver.NewPlanner(),
		tracer:  otel.Tracer("oas/decision"),
		l:       log.Default().Named("decision"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// LowRecommendation is the result when no debris record is risky.
func LowRecommendation() Recommendation {
	return Recommendation{ImpactArea: collision.LowImpact}
}

// Evaluate scans the table in order and returns the recommendation for the
// first record that is not classified as low impact area.
func (e *Evaluator) Evaluate(ctx context.Context, sat orbit.Elements) Recommendation {
	_, span := e.tracer.Start(ctx, "decision.evaluate",
		trace.WithAttributes(attribute.Int("debris.records", e.table.Len())))
	defer span.End()

	for idx, rec := range e.table.All() {
		a := e.scorer.Score(sat, rec.Elements)
		area := collision.ClassifyImpact(a.Probability, a.RelativeVelocity, e.density)
		if area == collision.LowImpact {
			continue
		}
		plan := e.planner.Plan(area, a.RelativeVelocity, a.RelativeVector, rec.Mass)
		e.l.Debug("debris matched",
			log.Int("index", idx),
			log.String("name", rec.Name),
			log.String("area", string(area)),
			log.Float64("probability", a.Probability),
			log.Float64("relativeVelocity", a.RelativeVelocity))
		span.SetAttributes(
			attribute.Int("debris.index", idx),
			attribute.String("impact.area", string(area)))
		return Recommendation{
			ThrustNeeded:         plan.ThrustNeeded,
			FuelUsed:             plan.FuelUsed,
			AdjustmentAngle:      plan.AdjustmentAngle,
			ManeuverTime:         plan.ManeuverTime,
			NewSemiMajorAxis:     plan.NewSemiMajorAxis,
			ImpactArea:           area,
			CollisionProbability: utils.Round2(a.Probability * 100),
			RelativeVelocity:     utils.Round2(a.RelativeVelocity),
			Debris:               &rec,
		}
	}
	span.SetAttributes(attribute.String("impact.area", string(collision.LowImpact)))
	return LowRecommendation()
}
