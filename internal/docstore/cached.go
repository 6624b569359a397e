package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cached collapses concurrent reads of the same document into one backend
// fetch and, when a redis client is set, keeps fetched documents for ttl.
// Reads from the uncached collections always go straight to the backend.
type Cached struct {
	next     Store
	redis    *redis.Client
	ttl      time.Duration
	group    singleflight.Group
	uncached map[string]bool
}

func NewCached(next Store, redisClient *redis.Client, ttl time.Duration, uncached ...string) *Cached {
	skip := make(map[string]bool, len(uncached))
	for _, collection := range uncached {
		skip[collection] = true
	}
	return &Cached{next: next, redis: redisClient, ttl: ttl, uncached: skip}
}

func (c *Cached) Get(ctx context.Context, collection, key string) (Document, error) {
	if c.uncached[collection] {
		return c.next.Get(ctx, collection, key)
	}
	cacheKey := documentCacheKey(collection, key)
	if doc, ok := c.readCache(ctx, cacheKey); ok {
		return doc, nil
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(cacheKey, func() (interface{}, error) {
		doc, err := c.next.Get(fetchCtx, collection, key)
		if err != nil {
			return nil, err
		}
		c.writeCache(fetchCtx, cacheKey, doc)
		return doc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneDocument(res.Val.(Document))
	}
}

func (c *Cached) Set(ctx context.Context, collection, key string, doc Document) error {
	if err := c.next.Set(ctx, collection, key, doc); err != nil {
		return err
	}
	if c.redis != nil {
		if err := c.redis.Del(ctx, documentCacheKey(collection, key)).Err(); err != nil {
			log.Printf("document cache invalidate %s/%s: %v", collection, key, err)
		}
	}
	return nil
}

func (c *Cached) readCache(ctx context.Context, cacheKey string) (Document, bool) {
	if c.redis == nil || c.ttl <= 0 {
		return nil, false
	}
	value, err := c.redis.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("document cache read %s: %v", cacheKey, err)
		return nil, false
	}
	var doc Document
	if err := json.Unmarshal([]byte(value), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

func (c *Cached) writeCache(ctx context.Context, cacheKey string, doc Document) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		log.Printf("document cache write %s: %v", cacheKey, err)
	}
}

func documentCacheKey(collection, key string) string {
	return fmt.Sprintf("document:%s:%s", collection, key)
}
