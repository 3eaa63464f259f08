package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) (*SQLiteAdapter, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storage.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteAdapter(t *testing.T) {
	s, _ := openTestSQLite(t)
	exerciseLocalStorage(t, s, "profile-1")
}

func TestSQLiteAdapter_SurvivesReopen(t *testing.T) {
	s, path := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SetItem(ctx, "p", "bata_cart", `[{"id":"p1","name":"Boot","price":50,"quantity":2}]`))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.GetItem(ctx, "p", "bata_cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"p1","name":"Boot","price":50,"quantity":2}]`, value)
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path)
		require.NoError(t, err, "open iteration %d", i)
		require.NoError(t, s.Close())
	}
}
