package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-lookup/internal/store"
)

func backends(t *testing.T) map[string]store.KV {
	t.Helper()

	sqliteStore, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	redisStore := store.NewRedisStore(client, "")
	t.Cleanup(func() { _ = redisStore.Close() })

	return map[string]store.KV{
		"memory": store.NewMemoryStore(),
		"sqlite": sqliteStore,
		"redis":  redisStore,
	}
}

func TestKV_Contract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, kv.Set(ctx, "k", `["Tokyo"]`))
			got, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `["Tokyo"]`, got)

			require.NoError(t, kv.Set(ctx, "k", `["Osaka","Tokyo"]`))
			got, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `["Osaka","Tokyo"]`, got, "set must overwrite")

			require.NoError(t, kv.Remove(ctx, "k"))
			_, err = kv.Get(ctx, "k")
			assert.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, kv.Remove(ctx, "never-set"), "removing a missing key is not an error")
		})
	}
}

func TestRedisStore_UsesPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := store.NewRedisStore(client, "test:")
	t.Cleanup(func() { _ = kv.Close() })

	require.NoError(t, kv.Set(context.Background(), "weather_search_history", `["Paris"]`))

	raw, err := mr.Get("test:weather_search_history")
	require.NoError(t, err)
	assert.Equal(t, `["Paris"]`, raw)
	assert.Equal(t, time.Duration(0), mr.TTL("test:weather_search_history"), "history must not expire")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := store.Open(ctx, store.Options{})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, kv)

	kv, err = store.Open(ctx, store.Options{Backend: store.BackendSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, kv)
	require.NoError(t, kv.Close())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	kv, err = store.Open(ctx, store.Options{Backend: store.BackendRedis, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &store.RedisStore{}, kv)
	require.NoError(t, kv.Close())

	_, err = store.Open(ctx, store.Options{Backend: "etcd"})
	require.Error(t, err)
}

func TestConnectRedis_InvalidURL(t *testing.T) {
	_, err := store.ConnectRedis(context.Background(), "not-a-url")
	require.Error(t, err)
}
