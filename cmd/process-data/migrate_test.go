package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/disaster-response/internal/db"
	"github.com/banshee-data/disaster-response/internal/testutil"
)

func tableExists(t *testing.T, path, table string) bool {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()
	var n int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n))
	return n == 1
}

func TestMigrate(t *testing.T) {
	dbPath := testutil.TempDBPath(t)

	out, err := execute(t, "migrate", "status", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0\nLatest version: 2\nDirty: false\n")

	out, err = execute(t, "migrate", "up", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 2\n")
	assert.True(t, tableExists(t, dbPath, "training_runs"))

	out, err = execute(t, "migrate", "down", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 1\n")
	assert.False(t, tableExists(t, dbPath, "training_runs"))
	assert.True(t, tableExists(t, dbPath, "etl_runs"))

	out, err = execute(t, "migrate", "up", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 2\n")
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	_, err := execute(t, "migrate", "up")
	assert.Error(t, err)
}
