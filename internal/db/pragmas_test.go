package db

import (
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/disaster-response/internal/testutil"
)

func assertPragmas(t *testing.T, db *DB) {
	t.Helper()
	checks := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"busy_timeout", "5000"},
		{"synchronous", "1"}, // NORMAL
		{"temp_store", "2"},  // MEMORY
	}
	for _, c := range checks {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+c.pragma).Scan(&got), c.pragma)
		assert.Equal(t, c.want, got, c.pragma)
	}
}

func TestNewDB_PragmasAndSchema(t *testing.T) {
	db, err := NewDB(testutil.TempDBPath(t))
	require.NoError(t, err)
	defer db.Close()

	assertPragmas(t, db)

	for _, table := range []string{"etl_runs", "training_runs"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "run history table %s", table)
	}
}

func TestOpenDB_ReappliesPragmas(t *testing.T) {
	path := testutil.TempDBPath(t)
	first, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	assertPragmas(t, db)

	version, dirty, err := db.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.False(t, dirty)
	latest, err := GetLatestMigrationVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, latest, version)
}

func TestOpenExistingDB(t *testing.T) {
	t.Run("missing path is not created", func(t *testing.T) {
		path := testutil.TempDBPath(t)
		_, err := OpenExistingDB(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "OpenExistingDB must not create %s", path)
	})
	t.Run("directory", func(t *testing.T) {
		_, err := OpenExistingDB(t.TempDir())
		assert.ErrorContains(t, err, "is a directory")
	})
	t.Run("existing database", func(t *testing.T) {
		path := testutil.TempDBPath(t)
		created, err := NewDB(path)
		require.NoError(t, err)
		require.NoError(t, created.Close())

		db, err := OpenExistingDB(path)
		require.NoError(t, err)
		defer db.Close()
		assertPragmas(t, db)
	})
}
