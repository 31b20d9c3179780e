package testutil

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgpkg "github.com/bibbank/mt799-service/pkg/postgres"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresDatabase = "mt799"
	postgresUser     = "swift"
	postgresPassword = "swift"
)

// PostgresContainer is a migrated PostgreSQL instance with an open pool.
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	Config    pgpkg.Config
	DSN       string
	Pool      *pgxpool.Pool
}

// NewPostgresContainer starts PostgreSQL, applies migrations (skipped when
// nil) and connects through pgpkg.NewPool. Everything is torn down when t
// finishes.
func NewPostgresContainer(ctx context.Context, t *testing.T, migrations fs.FS) *PostgresContainer {
	t.Helper()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	pc := &PostgresContainer{Container: container}
	t.Cleanup(func() { pc.terminate(t) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	pc.Config = pgpkg.Config{
		Host:     host,
		Port:     port.Int(),
		User:     postgresUser,
		Password: postgresPassword,
		Database: postgresDatabase,
		SSLMode:  "disable",
		MaxConns: 4,
	}
	pc.DSN = pc.Config.DSN()

	if migrations != nil {
		if err := pgpkg.RunMigrations(pc.DSN, migrations); err != nil {
			t.Fatalf("migrate postgres: %v", err)
		}
	}

	if pc.Pool, err = pgpkg.NewPool(ctx, pc.Config); err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	return pc
}

func (pc *PostgresContainer) terminate(t *testing.T) {
	t.Helper()

	if pc.Pool != nil {
		pc.Pool.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pc.Container.Terminate(ctx); err != nil {
		t.Logf("terminate postgres: %v", err)
	}
}
