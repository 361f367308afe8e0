//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage(t *testing.T) {
	opts := testdb.OptionsFromEnv()
	opts.WithRedis = true
	containers, err := testdb.Start(t, opts)
	require.NoError(t, err)
	t.Cleanup(func() { containers.Terminate(t) })

	store, err := NewRedisStorage(context.Background(), RedisConfig{Addr: containers.Env["REDIS_ADDR"], Prefix: "test:"})
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set("a", []byte("one"), time.Minute))
	require.NoError(t, store.Set("b", []byte("two"), 0))
	got, err = store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), got)

	require.NoError(t, store.Delete("a"))
	got, err = store.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Reset())
	got, err = store.Get("b")
	require.NoError(t, err)
	assert.Nil(t, got)
}
