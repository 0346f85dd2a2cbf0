//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/orbitarch/orbitarch-service-go/pkg/db/migrate"
)

// ExternalDBEnv names an existing server to use instead of a container.
const ExternalDBEnv = "TESTDB_URL"

var dbCounter atomic.Int64

// SetupTestDB creates a fresh migrated database for t and returns its url.
// The database is dropped when t ends. The test is skipped when neither
// ExternalDBEnv is set nor a docker provider is available.
func SetupTestDB(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	adminURL := os.Getenv(ExternalDBEnv)
	if adminURL == "" {
		adminURL = containerURL(ctx, t)
	}

	name := fmt.Sprintf("oas_test_%d_%d", os.Getpid(), dbCounter.Add(1))
	admin, err := pgx.Connect(ctx, adminURL)
	require.NoError(t, err)
	defer admin.Close(ctx)
	_, err = admin.Exec(ctx, "create database "+pgx.Identifier{name}.Sanitize())
	require.NoError(t, err)
	t.Cleanup(func() { dropDatabase(adminURL, name) })

	dbURL, err := withDatabase(adminURL, name)
	require.NoError(t, err)
	require.NoError(t, migrate.MigrateDB(dbURL))
	return dbURL
}

func containerURL(ctx context.Context, t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	port, err := nat.NewPort("tcp", "5432")
	require.NoError(t, err)
	container, err := SetupPostgres(ctx,
		WithPort(string(port)),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		WithName("oas-service-test"),
	)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)
	return fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres?sslmode=disable",
		host, mapped.Port())
}

func withDatabase(dbURL, name string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	u.Path = "/" + strings.TrimPrefix(name, "/")
	return u.String(), nil
}

func dropDatabase(adminURL, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, adminURL)
	if err != nil {
		return
	}
	defer conn.Close(ctx)
	conn.Exec(ctx, "drop database if exists "+pgx.Identifier{name}.Sanitize()+" with (force)")
}
