// Package basedata provides sample satellites and debris tables for tests.
package basedata

import (
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/pkg/orbit"
)

// SampleSatellite is the satellite of the end-to-end scenario, velocities
// left zero as the HTTP front end does.
func SampleSatellite() orbit.Elements {
	return orbit.Elements{SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45}
}

// FarDebris never yields more than a low impact area against SampleSatellite.
func FarDebris(name string) debris.Record {
	return debris.Record{
		Name:     name,
		Elements: orbit.Elements{
			SemiMajorAxis: 7800, Eccentricity: 0.02, Inclination: 98,
			VelocityPerigee: 7.2, VelocityApogee: 7.0,
		},
		Mass:          debris.DefaultMass,
		MassDefaulted: true,
	}
}

// CoplanarDebris shares the orbit of SampleSatellite. Relative velocity to the
// zero velocity satellite is 7.5*sqrt(2), the escape angle 45 degrees.
func CoplanarDebris(name string, mass float64) debris.Record {
	return debris.Record{
		Name:     name,
		Elements: orbit.Elements{
			SemiMajorAxis: 7000, Eccentricity: 0.001, Inclination: 45,
			VelocityPerigee: 7.5, VelocityApogee: 7.5,
		},
		Mass: mass,
	}
}

// MediumDebris is slightly off the SampleSatellite orbit: probability 0.5 and
// relative velocity 1.5 result in a medium impact area.
func MediumDebris(name string) debris.Record {
	return debris.Record{
		Name:     name,
		Elements: orbit.Elements{
			SemiMajorAxis: 7200, Eccentricity: 0.001, Inclination: 45,
			VelocityPerigee: 0.9, VelocityApogee: 1.2,
		},
		Mass:          debris.DefaultMass,
		MassDefaulted: true,
	}
}

// SampleTable has far debris first, then a medium and finally a high impact candidate.
func SampleTable() *debris.Table {
	return debris.NewTable([]debris.Record{
		FarDebris("far-1"),
		FarDebris("far-2"),
		MediumDebris("medium-1"),
		CoplanarDebris("coplanar-1", 500),
	})
}

// SampleCSV is a csv debris table without mass column.
const SampleCSV = `SEMIMAJOR_AXIS,ECCENTRICITY,INCLINATION,RA_OF_ASC_NODE,ARG_OF_PERICENTER,MEAN_ANOMALY,MEAN_MOTION,VELOCITY_PERIGEE,VELOCITY_APOGEE
7800,0.02,98,10,20,30,13.1,7.2,7.0
7000,0.001,45,0,0,0,15.2,7.5,7.5
`

// SampleCSVWithMass has mass and name columns in a different column order.
const SampleCSVWithMass = `OBJECT_NAME,INCLINATION,ECCENTRICITY,SEMIMAJOR_AXIS,RA_OF_ASC_NODE,ARG_OF_PERICENTER,MEAN_ANOMALY,MEAN_MOTION,VELOCITY_PERIGEE,VELOCITY_APOGEE,SATELLITE_MASS
FENGYUN 1C DEB,98,0.02,7800,10,20,30,13.1,7.2,7.0,12.5
COSMOS 2251 DEB,45,0.001,7000,0,0,0,15.2,7.5,7.5,
`
