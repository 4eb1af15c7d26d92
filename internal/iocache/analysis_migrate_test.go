package iocache

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAnalysis_NoneBackend(t *testing.T) {
	_, err := MigrateAnalysis(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "not supported for the none backend")
}

func TestMigrateAnalysis_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test_migration.db")

	msg, err := MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, "Successfully migrated from version 0 to version 3", msg)

	msg, err = MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "already at the latest version")

	msg, err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Equal(t, "Successfully migrated from version 3 to version 1", msg)

	msg, err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Contains(t, msg, "rolled back from version 1")

	_, err = MigrateAnalysis(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)
}

func TestMigrateAnalysis_StoreCompatible(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrated.db")
	_, err := MigrateAnalysis(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	store, err := NewAnalysisStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.BeginAnalysis(fixedTime, "feature", "main", nil)
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestMigrationsDir(t *testing.T) {
	dir, err := migrationsDir(schema.PostgreSQLBackend)
	require.NoError(t, err)
	assert.Equal(t, "migrations/postgres", dir)

	_, err = migrationsDir(schema.NoneBackend)
	assert.Error(t, err)

	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend} {
		dir, err := migrationsDir(backend)
		require.NoError(t, err)
		entries, err := migrationsFS.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 6, backend)
	}
}
