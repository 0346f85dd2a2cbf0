package damage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
)

func TestPlane(t *testing.T) {
	tests := []struct {
		inclination float64
		want        string
	}{
		{0, "Plane 1"},
		{9.999, "Plane 1"},
		{10, "Plane 2"},
		{29.9, "Plane 2"},
		{30, "Plane 3"},
		{45, "Plane 3"},
		{50, "Plane 4"},
		{70, "Plane 5"},
		{90, "Plane 6"},
		{99.99, "Plane 6"},
		{100, "Unknown"},
		{180, "Unknown"},
		{-1, "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Plane(tt.inclination), "inclination %v", tt.inclination)
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		name string
		el   orbit.Elements
		want *Assessment
	}{
		{
			name: "far from reference",
			el:   orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45},
			want: &Assessment{Plane: "Plane 3", Damage: NoDamage, Probability: 0.67},
		},
		{
			name: "on reference with fast orbit",
			el:   orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 10},
			want: &Assessment{Plane: "Plane 2", Damage: HighDamage, Probability: 88.08},
		},
		{
			name: "close to reference",
			el:   orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 12},
			want: &Assessment{Plane: "Plane 2", Damage: HighDamage, Probability: 83.2},
		},
		{
			name: "minor",
			el:   orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 5},
			want: &Assessment{Plane: "Plane 1", Damage: MinorDamage, Probability: 73.11},
		},
		{
			name: "slow given velocities prevent high damage",
			el: orbit.Elements{
				SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 10,
				VelocityPerigee: 7.4, VelocityApogee: 7.3,
			},
			want: &Assessment{Plane: "Plane 2", Damage: MinorDamage, Probability: 88.08},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.el)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifier_ClassifyInvalid(t *testing.T) {
	_, err := NewClassifier().Classify(orbit.Elements{SemiMajorAxis: 0})
	assert.Error(t, err)
}

func TestClassifier_probabilityBounds(t *testing.T) {
	c := NewClassifier()
	for _, a := range []float64{6500, 7000, 7500, 40000} {
		for _, i := range []float64{0, 10, 55, 98} {
			p := c.Probability(orbit.Elements{SemiMajorAxis: a, Eccentricity: 0.001, Inclination: i})
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			shown := DisplayProbability(p)
			assert.GreaterOrEqual(t, shown, 0.0)
			assert.LessOrEqual(t, shown, 100.0)
		}
	}
}

func TestDisplayProbability(t *testing.T) {
	assert.Equal(t, 88.08, DisplayProbability(0.8807970779778823))
	assert.Equal(t, 100.0, DisplayProbability(1))
	assert.Equal(t, 0.0, DisplayProbability(0))
	// values above one are assumed to be percentages already
	assert.Equal(t, 88.08, DisplayProbability(88.07970779778823))
}

func TestClassifier_options(t *testing.T) {
	c := NewClassifier(WithReference(Reference{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45}))
	p := c.Probability(orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45})
	assert.InDelta(t, 0.8807970779778823, p, 1e-12)

	c = NewClassifier(WithOffset(0))
	p = c.Probability(orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 10})
	assert.InDelta(t, 0.5, p, 1e-12)
}
