package debris_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
	"github.com/orbitarch/orbitarch-service-go/testsupport/basedata"
)

func TestReadCSV(t *testing.T) {
	got, err := debris.ReadCSV(strings.NewReader(basedata.SampleCSV))
	require.NoError(t, err)

	want := []debris.Record{
		{
			Elements: orbit.Elements{
				SemiMajorAxis: 7800, Eccentricity: 0.02, Inclination: 98,
				RaOfAscNode: 10, ArgOfPericenter: 20, MeanAnomaly: 30, MeanMotion: 13.1,
				VelocityPerigee: 7.2, VelocityApogee: 7.0,
			},
			Mass:          debris.DefaultMass,
			MassDefaulted: true,
		},
		{
			Elements: orbit.Elements{
				SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45,
				MeanMotion: 15.2, VelocityPerigee: 7.5, VelocityApogee: 7.5,
			},
			Mass:          debris.DefaultMass,
			MassDefaulted: true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_withMass(t *testing.T) {
	got, err := debris.ReadCSV(strings.NewReader(basedata.SampleCSVWithMass))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "FENGYUN 1C DEB", got[0].Name)
	assert.Equal(t, 12.5, got[0].Mass)
	assert.False(t, got[0].MassDefaulted)
	assert.Equal(t, 7800.0, got[0].Elements.SemiMajorAxis)
	assert.Equal(t, 98.0, got[0].Elements.Inclination)
	assert.Equal(t, 0.02, got[0].Elements.Eccentricity)

	assert.Equal(t, "COSMOS 2251 DEB", got[1].Name)
	assert.Equal(t, debris.DefaultMass, got[1].Mass, "empty mass cell")
	assert.True(t, got[1].MassDefaulted)
}

func TestReadCSV_explicitDefaultMass(t *testing.T) {
	src := strings.Replace(basedata.SampleCSVWithMass, ",12.5", ",350", 1)
	got, err := debris.ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, debris.DefaultMass, got[0].Mass)
	assert.False(t, got[0].MassDefaulted, "mass given in the source")
	assert.True(t, got[1].MassDefaulted)
	assert.Equal(t, 1, debris.CountMassDefaulted(got))
}

func TestReadCSV_errors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		src := "SEMIMAJOR_AXIS,ECCENTRICITY\n7000,0.001\n"
		_, err := debris.ReadCSV(strings.NewReader(src))
		require.ErrorIs(t, err, debris.ErrMissingColumn)
		assert.Contains(t, err.Error(), debris.ColInclination)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := debris.ReadCSV(strings.NewReader(""))
		require.ErrorIs(t, err, debris.ErrEmptySource)
	})
	t.Run("bad cell", func(t *testing.T) {
		src := strings.Replace(basedata.SampleCSV, "7800,0.02,98", "7800,abc,98", 1)
		_, err := debris.ReadCSV(strings.NewReader(src))
		var pe *debris.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Row)
		assert.Equal(t, debris.ColEccentricity, pe.Column)
	})
	t.Run("bad mass", func(t *testing.T) {
		src := strings.Replace(basedata.SampleCSVWithMass, ",12.5", ",heavy", 1)
		_, err := debris.ReadCSV(strings.NewReader(src))
		var pe *debris.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, debris.ColMass, pe.Column)
	})
}

func TestReadCSV_skipsBlankRows(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(basedata.SampleCSV), "\n")
	src := strings.Join([]string{lines[0], lines[1], ",,,,,,,,", lines[2]}, "\n")
	got, err := debris.ReadCSV(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func sampleXLSX(t *testing.T, sheet string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	rows := [][]any{
		{
			"OBJECT_NAME", "SEMIMAJOR_AXIS", "ECCENTRICITY", "INCLINATION",
			"RA_OF_ASC_NODE", "ARG_OF_PERICENTER", "MEAN_ANOMALY", "MEAN_MOTION",
			"VELOCITY_PERIGEE", "VELOCITY_APOGEE", "SATELLITE_MASS",
		},
		{"IRIDIUM 33 DEB", 7150, 0.0012, 86.4, 1, 2, 3, 14.3, 7.4, 7.38, 40},
		{"NO MASS", 7000, 0.001, 45, 0, 0, 0, 15.2, 7.5, 7.5},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	got, err := debris.ReadXLSX(sampleXLSX(t, "Sheet1"), "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "IRIDIUM 33 DEB", got[0].Name)
	assert.Equal(t, 7150.0, got[0].Elements.SemiMajorAxis)
	assert.Equal(t, 86.4, got[0].Elements.Inclination)
	assert.Equal(t, 40.0, got[0].Mass)
	assert.False(t, got[0].MassDefaulted)
	assert.Equal(t, debris.DefaultMass, got[1].Mass)
	assert.True(t, got[1].MassDefaulted)
}

func TestReadXLSX_sheet(t *testing.T) {
	got, err := debris.ReadXLSX(sampleXLSX(t, "debris"), "debris")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = debris.ReadXLSX(sampleXLSX(t, "debris"), "unknown")
	assert.Error(t, err)
}

const sampleYAML = `
- name: COSMOS 2251 DEB
  mass: 12
  elements:
    semiMajorAxis: 7000
    eccentricity: 0.001
    inclination: 45
    velocityPerigee: 7.5
    velocityApogee: 7.5
- elements:
    semiMajorAxis: 7800
    eccentricity: 0.02
    inclination: 98
`

func TestReadYAML(t *testing.T) {
	got, err := debris.ReadYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	want := []debris.Record{
		{
			Name: "COSMOS 2251 DEB",
			Mass: 12,
			Elements: orbit.Elements{
				SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45,
				VelocityPerigee: 7.5, VelocityApogee: 7.5,
			},
		},
		{
			Mass:          debris.DefaultMass,
			MassDefaulted: true,
			Elements:      orbit.Elements{SemiMajorAxis: 7800, Eccentricity: 0.02, Inclination: 98},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadYAML() mismatch (-want +got):\n%s", diff)
	}

	empty, err := debris.ReadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o600))
		return p
	}
	tests := []struct {
		name    string
		source  string
		wantLen int
	}{
		{name: "csv", source: write("debris.csv", []byte(basedata.SampleCSV)), wantLen: 2},
		{name: "upper case ext", source: write("MASS.CSV", []byte(basedata.SampleCSVWithMass)), wantLen: 2},
		{name: "xlsx", source: write("debris.xlsx", sampleXLSX(t, "Sheet1").Bytes()), wantLen: 2},
		{name: "yaml", source: write("debris.yaml", []byte(sampleYAML)), wantLen: 2},
		{name: "yml", source: write("debris.yml", []byte(sampleYAML)), wantLen: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := debris.Load(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, got.Len())
		})
	}
}

func TestLoad_errors(t *testing.T) {
	_, err := debris.Load(context.Background(), "debris.json")
	require.ErrorIs(t, err, debris.ErrUnsupportedSource)

	_, err = debris.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestIsPostgresSource(t *testing.T) {
	assert.True(t, debris.IsPostgresSource("postgresql://user:pw@localhost:5432/oas"))
	assert.True(t, debris.IsPostgresSource("postgres://localhost/oas"))
	assert.False(t, debris.IsPostgresSource("debris.csv"))
	assert.False(t, debris.IsPostgresSource("pgx://localhost/oas"))
}
