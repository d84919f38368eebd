package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClients holds one client for commands (page cache, reload queue) and
// a separate one for pub/sub, so a blocking BRPOP never starves subscribers.
type RedisClients struct {
	Queue  *redis.Client
	PubSub *redis.Client
}

// NewRedisClients connects to redisURL. An empty URL means Redis is not
// configured and yields (nil, nil).
func NewRedisClients(redisURL string) (*RedisClients, error) {
	if redisURL == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	queueClient := redis.NewClient(opt)
	if err := queueClient.Ping(ctx).Err(); err != nil {
		queueClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (queue): %w", err)
	}

	pubsubOpt := *opt
	pubsubClient := redis.NewClient(&pubsubOpt)
	if err := pubsubClient.Ping(ctx).Err(); err != nil {
		queueClient.Close()
		pubsubClient.Close()
		return nil, fmt.Errorf("failed to ping Redis (pubsub): %w", err)
	}

	return &RedisClients{
		Queue:  queueClient,
		PubSub: pubsubClient,
	}, nil
}

// QueueClient and PubSubClient are nil-safe accessors.
func (r *RedisClients) QueueClient() *redis.Client {
	if r == nil {
		return nil
	}
	return r.Queue
}

func (r *RedisClients) PubSubClient() *redis.Client {
	if r == nil {
		return nil
	}
	return r.PubSub
}

func (r *RedisClients) Close() {
	if r == nil {
		return
	}
	r.Queue.Close()
	r.PubSub.Close()
}
