package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "admin-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("opaque-token")
	assert.False(t, ok)
}

func TestTokenSubject(t *testing.T) {
	id, ok := TokenSubject(signedToken(t, time.Now().Add(time.Hour)))
	require.True(t, ok)
	assert.Equal(t, "admin-1", id)

	_, ok = TokenSubject("opaque-token")
	assert.False(t, ok)
}

func TestProviderLifecycle(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(NewMemoryStore(), nil)

	_, ok := p.Token()
	assert.False(t, ok)

	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, p.Set(ctx, token))
	got, ok := p.Token()
	assert.True(t, ok)
	assert.Equal(t, token, got)

	p.InvalidateIfCurrent(token)
	_, ok = p.Token()
	assert.False(t, ok)

	require.NoError(t, p.Set(ctx, "opaque"))
	require.NoError(t, p.Clear(ctx))
	_, ok = p.Token()
	assert.False(t, ok)
}

func TestProviderKeepsNewerTokenOnStaleInvalidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewProvider(store, nil)

	require.NoError(t, p.Set(ctx, "old"))
	require.NoError(t, p.Set(ctx, "new"))
	p.InvalidateIfCurrent("old")

	got, ok := p.Token()
	require.True(t, ok)
	assert.Equal(t, "new", got)
	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", persisted)

	p.InvalidateIfCurrent("")
	_, ok = p.Token()
	assert.True(t, ok)
}

func TestProviderTreatsExpiredTokenAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	p := NewProvider(store, nil)
	require.NoError(t, p.Set(context.Background(), signedToken(t, time.Now().Add(time.Minute))))

	p.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok := p.Token()
	assert.False(t, ok)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestProviderRestore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(ctx, token, 0))

	p := NewProvider(store, nil)
	require.NoError(t, p.Restore(ctx))
	got, ok := p.Token()
	assert.True(t, ok)
	assert.Equal(t, token, got)

	expired := NewMemoryStore()
	require.NoError(t, expired.Save(ctx, signedToken(t, time.Now().Add(-time.Minute)), 0))
	p = NewProvider(expired, nil)
	require.NoError(t, p.Restore(ctx))
	_, ok = p.Token()
	assert.False(t, ok)
}

type fakeRedis struct {
	values map[string]string
	ttl    time.Duration
	getErr error
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client := &fakeRedis{values: map[string]string{}}
	store := NewRedisStore(client, "console:token")

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "abc", time.Minute))
	assert.Equal(t, time.Minute, client.ttl)
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, client.values)

	client.getErr = errors.New("connection refused")
	_, err = store.Load(ctx)
	assert.Error(t, err)
}
