package db_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/db"
)

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db_test.db")

	d, err := db.Init(path)
	require.NoError(t, err)
	defer d.Close()

	for _, table := range []string{"scenario", "attempt", "persistent_state", "cache"} {
		var n int
		err := d.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestInit_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db_test.db")
	d, err := db.Init(path)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	d, err = db.Init(path)
	require.NoError(t, err)
	d.Close()
}

func TestPruneCache(t *testing.T) {
	d, err := db.Init(filepath.Join(t.TempDir(), "db_test.db"))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Exec("INSERT INTO cache (key, value, created_at) VALUES (?, ?, ?)", "old", []byte("x"), time.Now().Add(-48*time.Hour).UTC())
	require.NoError(t, err)
	_, err = d.Exec("INSERT INTO cache (key, value, created_at) VALUES (?, ?, ?)", "new", []byte("y"), time.Now().UTC())
	require.NoError(t, err)

	n, err := d.PruneCache(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPruneAttempts(t *testing.T) {
	d, err := db.Init(filepath.Join(t.TempDir(), "db_test.db"))
	require.NoError(t, err)
	defer d.Close()

	for _, at := range []time.Time{time.Now().Add(-10 * 24 * time.Hour), time.Now()} {
		_, err = d.Exec("INSERT INTO attempt (session_id, point_index, stage, call, at) VALUES ('s', 0, 'RadioCheck', 'x', ?)", at.UTC())
		require.NoError(t, err)
	}

	n, err := d.PruneAttempts(7 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
