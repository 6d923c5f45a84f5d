//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseBackends runs the cache and history commands against connStr for backend.
func exerciseBackends(t *testing.T, backend, connStr string) {
	t.Setenv("DIFFEFFORT_CACHE_BACKEND", backend)
	t.Setenv("DIFFEFFORT_CACHE_DB_CONNECT", connStr)
	t.Setenv("DIFFEFFORT_HISTORY_BACKEND", backend)
	t.Setenv("DIFFEFFORT_HISTORY_DB_CONNECT", connStr)

	root := t.TempDir()
	repo := newFixtureRepo(t, root, "widgets")

	steps := [][]string{
		{"cache", "clear"},
		{"history", "clear"},
		{"history", "migrate"},
		{"report", root, "--date", fixtureDay, "--verbosity", "0"},
		{"report", root, "--date", fixtureDay, "--verbosity", "0"}, // served from the diff cache
		{"cache", "status"},
		{"history", "status"},
		{"history", "migrate", "--target-version", "0"},
		{"history", "migrate"},
	}
	for _, args := range steps {
		_, err := runDiffeffort(t, repo, args...)
		require.NoError(t, err, "diffeffort %v", args)
	}
}

// TestDiffeffortWithMySQL tests the diffeffort CLI with a MySQL backend.
func TestDiffeffortWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "diffeffort",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/diffeffort?parseTime=true&multiStatements=true", host, port.Port())
	exerciseBackends(t, "mysql", connStr)
}

// TestDiffeffortWithPostgres tests the diffeffort CLI with a PostgreSQL backend.
func TestDiffeffortWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackends(t, "postgresql", connStr)
}
