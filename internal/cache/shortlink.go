package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const shortLinkTTL = 24 * time.Hour

func shortLinkKey(token string) string {
	return "shortlink:" + token
}

// ShortLinkCache keeps token -> recipe id bindings in redis. Tokens are
// immutable once minted, so cached entries never go stale.
type ShortLinkCache struct {
	client *redis.Client
}

func NewShortLinkCache(addr string) *ShortLinkCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
		Protocol: 2,
	})

	return &ShortLinkCache{client: client}
}

// Get returns the recipe id bound to the token, or "" on a miss.
func (c *ShortLinkCache) Get(ctx context.Context, token string) (string, error) {
	res := c.client.Get(ctx, shortLinkKey(token))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return "", nil
		}
		return "", res.Err()
	}
	return res.Val(), nil
}

func (c *ShortLinkCache) Set(ctx context.Context, token, recipeID string) error {
	return c.client.Set(ctx, shortLinkKey(token), recipeID, shortLinkTTL).Err()
}
