package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/bata-cart/internal/port"
)

var (
	_ port.LocalStorage = (*MemoryAdapter)(nil)
	_ port.LocalStorage = (*RedisAdapter)(nil)
	_ port.LocalStorage = (*MySQLAdapter)(nil)
	_ port.LocalStorage = (*SQLiteAdapter)(nil)
)

// exerciseLocalStorage runs the behaviour every backend shares. profile
// must not hold any data when it is called.
func exerciseLocalStorage(t *testing.T, s port.LocalStorage, profile string) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.GetItem(ctx, profile, "bata_cart")
	require.NoError(t, err)
	assert.False(t, ok, "fresh profile should have no items")

	require.NoError(t, s.SetItem(ctx, profile, "bata_cart", `[{"id":"p1"}]`))
	value, ok, err := s.GetItem(ctx, profile, "bata_cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, value)

	require.NoError(t, s.SetItem(ctx, profile, "bata_cart", `[]`))
	value, _, err = s.GetItem(ctx, profile, "bata_cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, value, "set should overwrite")

	_, ok, err = s.GetItem(ctx, profile+"-other", "bata_cart")
	require.NoError(t, err)
	assert.False(t, ok, "profiles must not share items")

	require.NoError(t, s.RemoveItem(ctx, profile, "bata_cart"))
	_, ok, err = s.GetItem(ctx, profile, "bata_cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RemoveItem(ctx, profile, "bata_cart"), "removing a missing key is not an error")
}
