package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LJTian/NewsHub/internal/trend"
)

const (
	seenKeyPrefix = "newshub:seen:"
	topicsKey     = "newshub:trending:topics"
	seenTTL       = 72 * time.Hour
	topicsTTL     = 45 * time.Minute
)

// Cache fronts the database with Redis. A nil client or any Redis error
// behaves like a cache miss.
type Cache struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func seenKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return seenKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Seen(ctx context.Context, url string) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, seenKey(url)).Result()
	return err == nil && n > 0
}

func (c *Cache) MarkSeen(ctx context.Context, url string) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, seenKey(url), 1, seenTTL).Err()
}

func (c *Cache) SetTopics(ctx context.Context, topics []trend.Topic) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	bs, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, topicsKey, bs, topicsTTL).Err()
}

func (c *Cache) Topics(ctx context.Context) ([]trend.Topic, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, topicsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var topics []trend.Topic
	if err := json.Unmarshal(bs, &topics); err != nil {
		return nil, false
	}
	return topics, true
}
