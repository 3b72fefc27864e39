package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/idp/internal/issuance/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, ConfigCache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return mr, NewRedisConfigCache(client, ttl)
}

func TestRedisConfigCache_SetAndGet(t *testing.T) {
	_, cache := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	flat := map[string][]string{
		domain.FieldIssuerName:   {"https://idp.example.com"},
		domain.FieldSPEntityID:   {"https://sp.example.com"},
		domain.FieldAttributeMap: {"uid=userid", "mail=email"},
	}

	require.NoError(t, cache.Set(ctx, "saml-prod", flat))

	got, err := cache.Get(ctx, "saml-prod")
	require.NoError(t, err)
	assert.Equal(t, flat, got)
}

func TestRedisConfigCache_Get_Miss(t *testing.T) {
	_, cache := newTestCache(t, 5*time.Minute)

	_, err := cache.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisConfigCache_NilValuesSurviveRoundTrip(t *testing.T) {
	_, cache := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	// A cleared record distinguishes present-with-nil from absent.
	flat := domain.EmptyFlatRecord()

	require.NoError(t, cache.Set(ctx, "saml-prod", flat))

	got, err := cache.Get(ctx, "saml-prod")
	require.NoError(t, err)
	assert.Equal(t, flat, got)
}

func TestRedisConfigCache_Invalidate(t *testing.T) {
	_, cache := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	flat := map[string][]string{domain.FieldIssuerName: {"https://idp.example.com"}}
	require.NoError(t, cache.Set(ctx, "saml-prod", flat))

	require.NoError(t, cache.Invalidate(ctx, "saml-prod"))

	_, err := cache.Get(ctx, "saml-prod")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisConfigCache_Invalidate_AbsentKey(t *testing.T) {
	_, cache := newTestCache(t, 5*time.Minute)

	assert.NoError(t, cache.Invalidate(context.Background(), "never-cached"))
}

func TestRedisConfigCache_TTLExpiry(t *testing.T) {
	mr, cache := newTestCache(t, time.Minute)
	ctx := context.Background()

	flat := map[string][]string{domain.FieldIssuerName: {"https://idp.example.com"}}
	require.NoError(t, cache.Set(ctx, "saml-prod", flat))

	mr.FastForward(2 * time.Minute)

	_, err := cache.Get(ctx, "saml-prod")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisConfigCache_KeysAreInstanceScoped(t *testing.T) {
	_, cache := newTestCache(t, 5*time.Minute)
	ctx := context.Background()

	prod := map[string][]string{domain.FieldIssuerName: {"https://prod.example.com"}}
	staging := map[string][]string{domain.FieldIssuerName: {"https://staging.example.com"}}

	require.NoError(t, cache.Set(ctx, "saml-prod", prod))
	require.NoError(t, cache.Set(ctx, "saml-staging", staging))

	require.NoError(t, cache.Invalidate(ctx, "saml-prod"))

	got, err := cache.Get(ctx, "saml-staging")
	require.NoError(t, err)
	assert.Equal(t, staging, got)
}

func TestNoopConfigCache(t *testing.T) {
	cache := NewNoopConfigCache()
	ctx := context.Background()

	flat := map[string][]string{domain.FieldIssuerName: {"https://idp.example.com"}}

	assert.NoError(t, cache.Set(ctx, "saml-prod", flat))

	_, err := cache.Get(ctx, "saml-prod")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, cache.Invalidate(ctx, "saml-prod"))
}
