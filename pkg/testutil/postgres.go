package testutil

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pkgpostgres "github.com/AliSleiman0/loan-default-predictor/pkg/postgres"
)

// PostgresContainer is a throwaway PostgreSQL instance with a connected pool.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts PostgreSQL, applies migrations from fsys/dir and
// registers cleanup with t. Integration tests call SkipIfShort first.
func NewPostgresContainer(ctx context.Context, t *testing.T, fsys fs.FS, dir string) *PostgresContainer {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("loans_test"),
		postgres.WithUsername("loans"),
		postgres.WithPassword("loans"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")

	pc := &PostgresContainer{Container: container}
	t.Cleanup(func() { pc.cleanup(t) })

	pc.DSN, err = container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	require.NoError(t, pkgpostgres.RunMigrations(pc.DSN, fsys, dir), "apply migrations")

	pc.Pool, err = pgxpool.New(ctx, pc.DSN)
	require.NoError(t, err, "create pgxpool")
	require.NoError(t, pc.Pool.Ping(ctx), "ping postgres")

	return pc
}

func (pc *PostgresContainer) cleanup(t *testing.T) {
	if pc.Pool != nil {
		pc.Pool.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("warning: failed to terminate postgres container: %v", err)
	}
}

// SkipIfShort skips container-backed tests under `go test -short`.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}
}
