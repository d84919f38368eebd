package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"practicelog/internal/models"
)

const pageCachePrefix = "question_page:"

// PageCache stores parsed question pages in Redis. A nil client turns every
// call into a miss.
type PageCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPageCache(redisClient *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{redis: redisClient, ttl: ttl}
}

func (c *PageCache) Enabled() bool {
	return c != nil && c.redis != nil
}

// Get returns (nil, nil) on a miss.
func (c *PageCache) Get(ctx context.Context, file string) (*models.QuestionPage, error) {
	if !c.Enabled() {
		return nil, nil
	}

	raw, err := c.redis.Get(ctx, pageCachePrefix+file).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read page cache: %w", err)
	}

	var page models.QuestionPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return &page, nil
}

func (c *PageCache) Set(ctx context.Context, page *models.QuestionPage) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	if err := c.redis.Set(ctx, pageCachePrefix+page.File, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write page cache: %w", err)
	}
	return nil
}

// Flush drops every cached page. Called after a reload, since pages may have
// been regenerated along with the feed.
func (c *PageCache) Flush(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	iter := c.redis.Scan(ctx, 0, pageCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan page cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}
