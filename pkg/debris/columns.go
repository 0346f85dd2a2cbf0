package debris

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
)

const (
	ColSemiMajorAxis   = "SEMIMAJOR_AXIS"
	ColEccentricity    = "ECCENTRICITY"
	ColInclination     = "INCLINATION"
	ColRaOfAscNode     = "RA_OF_ASC_NODE"
	ColArgOfPericenter = "ARG_OF_PERICENTER"
	ColMeanAnomaly     = "MEAN_ANOMALY"
	ColMeanMotion      = "MEAN_MOTION"
	ColVelocityPerigee = "VELOCITY_PERIGEE"
	ColVelocityApogee  = "VELOCITY_APOGEE"
	ColMass            = "SATELLITE_MASS"
	ColName            = "OBJECT_NAME"
)

// ElementColumns are the required columns in element order.
var ElementColumns = []string{
	ColSemiMajorAxis, ColEccentricity, ColInclination,
	ColRaOfAscNode, ColArgOfPericenter, ColMeanAnomaly,
	ColMeanMotion, ColVelocityPerigee, ColVelocityApogee,
}

// header maps column names to their position in a tabular source.
type header struct {
	elements [9]int
	mass     int // -1 if absent
	name     int // -1 if absent
}

func parseHeader(cols []string) (*header, error) {
	norm := lo.Map(cols, func(c string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(c))
	})
	h := &header{
		mass: lo.IndexOf(norm, ColMass),
		name: lo.IndexOf(norm, ColName),
	}
	for i, c := range ElementColumns {
		idx := lo.IndexOf(norm, c)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
		h.elements[i] = idx
	}
	return h, nil
}

// record converts one data row. row is 1-based for error messages and
// counts the header line.
func (h *header) record(cells []string, row int) (Record, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}
	var values [9]float64
	for i, idx := range h.elements {
		v, err := strconv.ParseFloat(cell(idx), 64)
		if err != nil {
			return Record{}, &ParseError{Row: row, Column: ElementColumns[i], Err: err}
		}
		values[i] = v
	}
	ret := Record{
		Name:          cell(h.name),
		Elements:      elementsFrom(values),
		Mass:          DefaultMass,
		MassDefaulted: true,
	}
	if s := cell(h.mass); s != "" {
		m, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Record{}, &ParseError{Row: row, Column: ColMass, Err: err}
		}
		ret.Mass = m
		ret.MassDefaulted = false
	}
	return ret, nil
}

func elementsFrom(v [9]float64) orbit.Elements {
	return orbit.Elements{
		SemiMajorAxis:   v[0],
		Eccentricity:    v[1],
		Inclination:     v[2],
		RaOfAscNode:     v[3],
		ArgOfPericenter: v[4],
		MeanAnomaly:     v[5],
		MeanMotion:      v[6],
		VelocityPerigee: v[7],
		VelocityApogee:  v[8],
	}
}

// Values returns the elements in column order.
func Values(e orbit.Elements) [9]float64 {
	return [9]float64{
		e.SemiMajorAxis, e.Eccentricity, e.Inclination,
		e.RaOfAscNode, e.ArgOfPericenter, e.MeanAnomaly,
		e.MeanMotion, e.VelocityPerigee, e.VelocityApogee,
	}
}

func fromRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}
	h, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}
	ret := make([]Record, 0, len(rows)-1)
	for i, r := range rows[1:] {
		if lo.EveryBy(r, func(c string) bool { return strings.TrimSpace(c) == "" }) {
			continue
		}
		rec, err := h.record(r, i+2)
		if err != nil {
			return nil, err
		}
		ret = append(ret, rec)
	}
	return ret, nil
}
