// Package predict combines damage classification and the debris decision
// into the response of a prediction request.
package predict

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/orbitarch/orbitarch-service-go/log"
	"github.com/orbitarch/orbitarch-service-go/pkg/alert"
	"github.com/orbitarch/orbitarch-service-go/pkg/collision"
	"github.com/orbitarch/orbitarch-service-go/pkg/damage"
	"github.com/orbitarch/orbitarch-service-go/pkg/decision"
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
)

type (
	Request struct {
		SemiMajorAxis float64 `json:"semiMajorAxis"`
		Eccentricity  float64 `json:"eccentricity"`
		Inclination   float64 `json:"inclination"`
	}
	Response struct {
		Probability      float64                 `json:"probability"`
		DamagePlane      string                  `json:"damage_plane"`
		DamageAssessment damage.Category         `json:"damage_assessment"`
		Recommendations  decision.Recommendation `json:"recommendations"`
	}
	// ImpactAreaObserver receives the impact area of every prediction.
	ImpactAreaObserver interface {
		ObserveImpactArea(area collision.ImpactArea)
	}
	Service struct {
		classifier *damage.Classifier
		evaluator  *decision.Evaluator
		publisher  alert.Publisher
		observer   ImpactAreaObserver
		tracer     trace.Tracer
		now        func() time.Time
		l          *log.Logger
	}
	Option func(*Service)
)

func WithClassifier(c *damage.Classifier) Option {
	return func(s *Service) {
		s.classifier = c
	}
}

func WithEvaluator(e *decision.Evaluator) Option {
	return func(s *Service) {
		s.evaluator = e
	}
}

func WithPublisher(p alert.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithObserver(o ImpactAreaObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.l = l
	}
}

// NewService creates the service. Without WithEvaluator the decision runs
// against an empty debris table.
func NewService(opts ...Option) *Service {
	ret := &Service{
		classifier: damage.NewClassifier(),
		evaluator:  decision.NewEvaluator(nil),
		publisher:  alert.Noop{},
		tracer:     otel.Tracer("oas/predict"),
		now:        time.Now,
		l:          log.Default().Named("predict"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Elements returns the request as orbital elements, the remaining six
// fields set to zero.
func (r Request) Elements() orbit.Elements {
	return orbit.Elements{
		SemiMajorAxis: r.SemiMajorAxis,
		Eccentricity:  r.Eccentricity,
		Inclination:   r.Inclination,
	}
}

// Predict classifies the satellite and evaluates the debris table. Invalid
// elements are reported as *ValidationError.
func (s *Service) Predict(ctx context.Context, req Request) (*Response, error) {
	ctx, span := s.tracer.Start(ctx, "predict",
		trace.WithAttributes(
			attribute.Float64("orbit.semi_major_axis", req.SemiMajorAxis),
			attribute.Float64("orbit.eccentricity", req.Eccentricity),
			attribute.Float64("orbit.inclination", req.Inclination)))
	defer span.End()

	el := req.Elements()
	if err := el.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid elements")
		return nil, &ValidationError{Err: err}
	}
	assessment, err := s.classifier.Classify(el)
	if err != nil {
		span.SetStatus(codes.Error, "invalid elements")
		return nil, &ValidationError{Err: err}
	}
	// the decision compares against the request elements, velocities unset
	rec := s.evaluator.Evaluate(ctx, el)

	if s.observer != nil {
		s.observer.ObserveImpactArea(rec.ImpactArea)
	}
	if rec.ImpactArea != collision.LowImpact {
		s.publish(ctx, el, &rec)
	}
	s.l.Debug("prediction done",
		log.String("requestId", RequestID(ctx)),
		log.String("plane", assessment.Plane),
		log.String("damage", string(assessment.Damage)),
		log.String("area", string(rec.ImpactArea)))
	span.SetAttributes(
		attribute.String("damage.plane", assessment.Plane),
		attribute.String("impact.area", string(rec.ImpactArea)))

	return &Response{
		Probability:      assessment.Probability,
		DamagePlane:      assessment.Plane,
		DamageAssessment: assessment.Damage,
		Recommendations:  rec,
	}, nil
}

func (s *Service) publish(ctx context.Context, el orbit.Elements, rec *decision.Recommendation) {
	a := &alert.Alert{
		RequestID:            RequestID(ctx),
		Satellite:            el,
		ImpactArea:           rec.ImpactArea,
		CollisionProbability: rec.CollisionProbability,
		RelativeVelocity:     rec.RelativeVelocity,
		Timestamp:            s.now().UTC(),
	}
	if rec.Debris != nil {
		a.DebrisName = rec.Debris.Name
	}
	if err := s.publisher.Publish(ctx, a); err != nil {
		s.l.Warn("could not publish alert", log.ErrorField(err))
	}
}
