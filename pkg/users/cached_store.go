package users

import (
	"context"

	"tarobot/pkg/cache"
)

// CachedStore fronts a Store with a Redis read-through cache on Get.
// Writes pass straight through and invalidate the cached profile so a
// follow-up Get never sees stale preferences mid-flow.
type CachedStore struct {
	Store
	cache *cache.Cache
}

func NewCachedStore(store Store, c *cache.Cache) *CachedStore {
	return &CachedStore{
		Store: store,
		cache: c,
	}
}

func (c *CachedStore) Get(ctx context.Context, userID string) (*UserProfile, error) {
	key := c.cache.Key("profile", userID)

	var cached UserProfile
	if err := c.cache.GetJSON(ctx, key, &cached); err == nil && cached.UserID != "" {
		return &cached, nil
	}

	profile, err := c.Store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	_ = c.cache.SetJSON(ctx, key, profile, cache.ProfileTTL)
	return profile, nil
}

func (c *CachedStore) Upsert(ctx context.Context, p UpsertParams) error {
	if err := c.Store.Upsert(ctx, p); err != nil {
		return err
	}
	_ = c.cache.Delete(ctx, c.cache.Key("profile", p.UserID))
	return nil
}

func (c *CachedStore) SetSubscribed(ctx context.Context, userID string, subscribed bool) error {
	if err := c.Store.SetSubscribed(ctx, userID, subscribed); err != nil {
		return err
	}
	_ = c.cache.Delete(ctx, c.cache.Key("profile", userID))
	return nil
}
