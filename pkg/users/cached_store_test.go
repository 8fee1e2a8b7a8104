package users

import (
	"context"
	"testing"

	"tarobot/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps MemoryStore to observe cache hits vs misses.
type countingStore struct {
	*MemoryStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, userID string) (*UserProfile, error) {
	c.gets++
	return c.MemoryStore.Get(ctx, userID)
}

func newCachedFixture(t *testing.T) (*CachedStore, *countingStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	backing := &countingStore{MemoryStore: NewMemoryStore()}
	return NewCachedStore(backing, cache.NewWithClient(client, "test")), backing
}

func TestCachedStore_ReadThrough(t *testing.T) {
	store, backing := newCachedFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, UpsertParams{UserID: "42", DisplayName: "Ana", Gender: GenderFemale}))

	p, err := store.Get(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, backing.gets)

	// Second read is served from Redis.
	p, err = store.Get(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Ana", p.DisplayName)
	assert.Equal(t, 1, backing.gets)
}

func TestCachedStore_UpsertInvalidates(t *testing.T) {
	store, backing := newCachedFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, UpsertParams{UserID: "42", DisplayName: "Ana"}))

	_, err := store.Get(ctx, "42")
	require.NoError(t, err)

	// The write must evict the cached profile.
	require.NoError(t, store.Upsert(ctx, UpsertParams{UserID: "42", DisplayName: "Anabela"}))

	p, err := store.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Anabela", p.DisplayName)
	assert.Equal(t, 2, backing.gets)
}

func TestCachedStore_NotFoundNotCached(t *testing.T) {
	store, backing := newCachedFixture(t)
	ctx := context.Background()

	p, err := store.Get(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, p)

	// A profile created after a miss must be visible immediately.
	require.NoError(t, store.Upsert(ctx, UpsertParams{UserID: "ghost", Username: "now_exists"}))

	p, err = store.Get(ctx, "ghost")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "now_exists", p.Username)
	assert.Equal(t, 2, backing.gets)
}
