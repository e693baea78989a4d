package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(store *memCacheStore, enabled bool) *CacheGateway {
	return NewCacheGateway(store, config.CacheConfig{Enabled: enabled, Prefix: "mailgun:"}, newTestLogger())
}

func countingCompute(calls *int, value []string, err error) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		*calls++
		return value, err
	}
}

func TestFetch_ComputesOnceWithinTTL(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, true)
	ctx := context.Background()
	calls := 0

	v1, ok, err := Fetch(ctx, gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, []string{"a"}, nil))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v1)

	v2, ok, err := Fetch(ctx, gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, []string{"b"}, nil))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v2, "second call should be served from cache")
	assert.Equal(t, 1, calls)
}

func TestFetch_ClearForcesRecompute(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, true)
	ctx := context.Background()
	calls := 0

	_, _, _ = Fetch(ctx, gw, domain.OpWebhooksIndex, []any{"mg.example.com"}, time.Hour, countingCompute(&calls, []string{"a"}, nil))
	require.NoError(t, gw.Clear(ctx))
	v, ok, err := Fetch(ctx, gw, domain.OpWebhooksIndex, []any{"mg.example.com"}, time.Hour, countingCompute(&calls, []string{"b"}, nil))

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, v)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"mailgun:"}, store.cleared)
}

func TestFetch_StoresTTL(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, true)
	calls := 0

	_, _, _ = Fetch(context.Background(), gw, domain.OpEventsGet, []any{1, "x"}, 5*time.Minute, countingCompute(&calls, nil, nil))

	key := gw.Key(domain.OpEventsGet, []any{1, "x"})
	assert.Equal(t, 5*time.Minute, store.ttls[key])
}

func TestFetch_FailureIsCachedAsSentinel(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, true)
	ctx := context.Background()
	calls := 0

	_, ok, err := Fetch(ctx, gw, domain.OpEventsGet, nil, time.Minute, countingCompute(&calls, nil, errUpstream))
	assert.False(t, ok)
	assert.ErrorIs(t, err, errUpstream)

	_, ok, err = Fetch(ctx, gw, domain.OpEventsGet, nil, time.Minute, countingCompute(&calls, []string{"x"}, nil))
	assert.False(t, ok)
	assert.NoError(t, err, "cached failure carries no error")
	assert.Equal(t, 1, calls)
}

func TestFetch_DisabledAlwaysComputes(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, false)
	ctx := context.Background()
	calls := 0

	for i := 0; i < 3; i++ {
		_, ok, err := Fetch(ctx, gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, []string{"a"}, nil))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 3, calls)
	assert.Zero(t, store.len())

	_, ok, err := Fetch(ctx, gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, nil, errUpstream))
	assert.False(t, ok)
	assert.ErrorIs(t, err, errUpstream)
}

func TestFetch_NilStoreComputes(t *testing.T) {
	gw := NewCacheGateway(nil, config.CacheConfig{Enabled: true, Prefix: "mailgun:"}, newTestLogger())
	calls := 0

	v, ok, err := Fetch(context.Background(), gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, []string{"a"}, nil))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v)
	assert.NoError(t, gw.Clear(context.Background()))
}

func TestFetch_StoreErrorsFallBackToCompute(t *testing.T) {
	store := newMemCacheStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	gw := newTestGateway(store, true)
	calls := 0

	for i := 0; i < 2; i++ {
		v, ok, err := Fetch(context.Background(), gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, []string{"a"}, nil))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"a"}, v)
	}
	assert.Equal(t, 2, calls)
}

func TestFetch_UndecodableEntryIsRecomputed(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, true)
	key := gw.Key(domain.OpDomainsIndex, nil)
	store.data[key] = []byte("not json")
	calls := 0

	v, ok, err := Fetch(context.Background(), gw, domain.OpDomainsIndex, nil, time.Hour, countingCompute(&calls, []string{"fresh"}, nil))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"fresh"}, v)
	assert.Equal(t, 1, calls)
}

func TestFetch_StructValuesRoundTrip(t *testing.T) {
	store := newMemCacheStore()
	gw := newTestGateway(store, true)
	ctx := context.Background()
	state := domain.NewWebhookConfigState(map[string]string{"opened": "https://example.org/__mailgun/incoming?type=open"})
	compute := func(context.Context) (domain.WebhookConfigState, error) { return state, nil }

	_, _, err := Fetch(ctx, gw, domain.OpWebhooksIndex, nil, time.Hour, compute)
	require.NoError(t, err)

	got, ok, err := Fetch(ctx, gw, domain.OpWebhooksIndex, nil, time.Hour, func(context.Context) (domain.WebhookConfigState, error) {
		t.Fatal("compute must not run on a hit")
		return domain.WebhookConfigState{}, nil
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Installed("example.org"))
}

func TestCacheGateway_Key(t *testing.T) {
	gw := newTestGateway(newMemCacheStore(), true)

	k1 := gw.Key(domain.OpEventsGet, []any{int64(1), "a"})
	k2 := gw.Key(domain.OpEventsGet, []any{int64(1), "a"})
	k3 := gw.Key(domain.OpEventsGet, []any{"a", int64(1)})
	k4 := gw.Key(domain.OpDomainsShow, []any{int64(1), "a"})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3, "parameter order is significant")
	assert.NotEqual(t, k1, k4)
	assert.True(t, strings.HasPrefix(k1, "mailgun:"))
	assert.Len(t, strings.TrimPrefix(k1, "mailgun:"), 64)
}
