package check

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/testsupport/basedata"
)

func TestRender(t *testing.T) {
	v := map[string]any{
		"damage_plane":    "Plane 3",
		"recommendations": map[string]any{"impact_area": "Medium Impact Area"},
	}
	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "single", expr: "$.recommendations.impact_area", want: `"Medium Impact Area"`},
		{name: "plane", expr: "$.damage_plane", want: `"Plane 3"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(v, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	all, err := render(v, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"damage_plane":"Plane 3","recommendations":{"impact_area":"Medium Impact Area"}}`, all)

	_, err = render(v, "$.unknown")
	require.ErrorIs(t, err, errNoMatch)

	_, err = render(v, "$[[")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := summarize("sample", basedata.SampleTable())
	assert.Equal(t, 4, s.Records)
	assert.Equal(t, 3, s.DefaultMass)
	assert.Equal(t, "far-1", s.Entries[0].Name)

	explicit := debris.NewTable([]debris.Record{basedata.CoplanarDebris("c", debris.DefaultMass)})
	assert.Equal(t, 0, summarize("explicit", explicit).DefaultMass)
}

func TestCheckPredictCmd(t *testing.T) {
	source := filepath.Join(t.TempDir(), "debris.csv")
	require.NoError(t, os.WriteFile(source, []byte(basedata.SampleCSV), 0o600))
	prev := config.DebrisSource
	t.Cleanup(func() {
		config.DebrisSource = prev
		selectExpr = ""
	})
	config.DebrisSource = source

	cmd := NewCheckCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"predict", "--select", "$.recommendations.impact_area"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "\"High Impact Area\"\n", out.String())
}
