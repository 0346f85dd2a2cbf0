package debris_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbmigrate "github.com/orbitarch/orbitarch-service-go/pkg/db/migrate"
	"github.com/orbitarch/orbitarch-service-go/pkg/db/postgres"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
	"github.com/orbitarch/orbitarch-service-go/testsupport/basedata"
	"github.com/orbitarch/orbitarch-service-go/testsupport/tcpostgres"
)

func TestPostgres_keepsOrder(t *testing.T) {
	dbURL := tcpostgres.SetupTestDB(t)
	ctx := context.Background()
	require.NoError(t, dbmigrate.MigrateDB(dbURL), "migrations are idempotent")

	pool, err := postgres.InitWithURL(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()

	records := []debris.Record{
		basedata.CoplanarDebris("coplanar-1", 500),
		basedata.FarDebris("far-1"),
		basedata.MediumDebris(""),
		basedata.CoplanarDebris("coplanar-2", debris.DefaultMass),
		basedata.FarDebris("far-2"),
	}
	n, err := debris.WritePostgres(ctx, pool, records)
	require.NoError(t, err)
	assert.Equal(t, int64(len(records)), n)

	var nullMass int
	require.NoError(t, pool.QueryRow(ctx,
		"select count(*) from debris where satellite_mass is null").Scan(&nullMass))
	assert.Equal(t, 3, nullMass)

	got, err := debris.Load(ctx, dbURL)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got.Records()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	// a second transfer replaces the previous content
	_, err = debris.WritePostgres(ctx, pool, records[3:])
	require.NoError(t, err)
	got, err = debris.Load(ctx, dbURL, debris.WithPool(pool))
	require.NoError(t, err)
	if diff := cmp.Diff(records[3:], got.Records()); diff != "" {
		t.Errorf("Load() after replace mismatch (-want +got):\n%s", diff)
	}
}

func TestPostgres_nullMass(t *testing.T) {
	dbURL := tcpostgres.SetupTestDB(t)
	ctx := context.Background()
	pool, err := postgres.InitWithURL(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `insert into debris (position, object_name,
		semimajor_axis, eccentricity, inclination, ra_of_asc_node, arg_of_pericenter,
		mean_anomaly, mean_motion, velocity_perigee, velocity_apogee, satellite_mass)
		values (1, null, 7000, 0.001, 45, 0, 0, 0, 15.2, 7.5, 7.5, null),
		       (0, 'heavy', 7800, 0.02, 98, 0, 0, 0, 13.1, 7.2, 7.0, 900)`)
	require.NoError(t, err)

	got, err := debris.ReadPostgres(ctx, pool)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "heavy", got[0].Name)
	assert.Equal(t, 900.0, got[0].Mass)
	assert.False(t, got[0].MassDefaulted)
	assert.Equal(t, "", got[1].Name)
	assert.Equal(t, debris.DefaultMass, got[1].Mass)
	assert.True(t, got[1].MassDefaulted)
}
