package denylist

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/codegrapher/graphers/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:deny:"), m
}

func TestRedisStore_SetAndGetCutoff(t *testing.T) {
	store, m := newRedisStore(t)
	ctx := context.Background()

	_, ok, err := store.Cutoff(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	cutoff := time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)
	require.NoError(t, store.SetCutoff(ctx, "alice@example.com", cutoff, 30*time.Minute))
	require.True(t, m.Exists("test:deny:alice@example.com"))

	got, ok, err := store.Cutoff(ctx, "alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, cutoff.Equal(got))

	m.FastForward(31 * time.Minute)
	_, ok, err = store.Cutoff(ctx, "alice@example.com")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, m := newRedisStore(t)
	require.NoError(t, m.Set("test:deny:bob@example.com", "garbage"))
	_, _, err := store.Cutoff(context.Background(), "bob@example.com")
	require.Error(t, err)
}

func TestService_RevokeCutsOffOlderTokens(t *testing.T) {
	store, _ := newRedisStore(t)
	svc := NewService(store, 30*time.Minute)
	ctx := context.Background()
	cutoff := time.Date(2024, 3, 1, 12, 0, 0, 700000000, time.UTC)

	require.NoError(t, svc.Revoke(ctx, "carol@example.com", cutoff))

	before := testutil.ToFloat64(metrics.DenylistHits)
	revoked, err := svc.IsRevoked(ctx, "carol@example.com", cutoff.Add(-time.Hour))
	require.NoError(t, err)
	require.True(t, revoked)

	// same second as the cutoff
	revoked, err = svc.IsRevoked(ctx, "carol@example.com", cutoff.Truncate(time.Second))
	require.NoError(t, err)
	require.True(t, revoked)
	require.Equal(t, before+2, testutil.ToFloat64(metrics.DenylistHits))

	revoked, err = svc.IsRevoked(ctx, "carol@example.com", cutoff.Truncate(time.Second).Add(time.Second))
	require.NoError(t, err)
	require.False(t, revoked)

	revoked, err = svc.IsRevoked(ctx, "dave@example.com", cutoff.Add(-time.Hour))
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestService_StoreErrorPropagates(t *testing.T) {
	store, m := newRedisStore(t)
	svc := NewService(store, time.Minute)
	m.Close()

	_, err := svc.IsRevoked(context.Background(), "x@example.com", time.Now())
	require.Error(t, err)
}
