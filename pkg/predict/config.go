package predict

import (
	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/decision"
	"github.com/orbitarch/orbitarch-service-go/pkg/maneuver"
)

// NewServiceFromConfig wires classifier and evaluator with the resolved
// pipeline configuration. Non-positive values fall back to the defaults.
//
//nolint:whitespace // can't make both editor and linter happy
func NewServiceFromConfig(
	cfg config.Config, table *debris.Table, opts ...Option,
) *Service {
	var evalOpts []decision.Option
	var planOpts []maneuver.Option
	if cfg.DebrisDensity > 0 {
		evalOpts = append(evalOpts, decision.WithDensity(cfg.DebrisDensity))
	}
	if cfg.SpecificImpulse > 0 {
		planOpts = append(planOpts, maneuver.WithSpecificImpulse(cfg.SpecificImpulse))
	}
	if cfg.StandardGravity > 0 {
		planOpts = append(planOpts, maneuver.WithStandardGravity(cfg.StandardGravity))
	}
	evalOpts = append(evalOpts, decision.WithPlanner(maneuver.NewPlanner(planOpts...)))
	return NewService(append(
		[]Option{WithEvaluator(decision.NewEvaluator(table, evalOpts...))},
		opts...)...)
}
