//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseBackend runs the full cache and tracking lifecycle against one backend.
func exerciseBackend(t *testing.T, backend, connStr string) {
	repo := initTestRepo(t)
	env := []string{
		"CHANGESCOPE_CACHE_BACKEND=" + backend,
		"CHANGESCOPE_CACHE_DB_CONNECT=" + connStr,
		"CHANGESCOPE_ANALYSIS_BACKEND=" + backend,
		"CHANGESCOPE_ANALYSIS_DB_CONNECT=" + connStr,
	}

	_, err := runChangescope(t, repo, env, "cache", "clear")
	require.NoError(t, err)
	_, err = runChangescope(t, repo, env, "analysis", "clear")
	require.NoError(t, err)

	out, err := runChangescope(t, repo, env, "analysis", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "version 3")

	// The second run is served from the result cache and still tracked
	for range 2 {
		_, err = runChangescope(t, repo, env, "diff", "--target-ref", "main", "--limit", "5")
		require.NoError(t, err)
	}

	out, err = runChangescope(t, repo, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Entries: 1")

	out, err = runChangescope(t, repo, env, "analysis", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 2")
	assert.Contains(t, out, "Total File Changes: 8")
}

// TestChangescopeWithMySQL tests the changescope CLI with a MySQL backend.
func TestChangescopeWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "changescope",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/changescope?parseTime=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestChangescopeWithPostgres tests the changescope CLI with a PostgreSQL backend.
func TestChangescopeWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}
