package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReloadQueue is the Redis list reload requests are pushed onto.
const ReloadQueue = "queue:history-reload"

const popTimeout = 5 * time.Second

// ReloadRequest is one queued reload.
type ReloadRequest struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}

// EnqueueReload asks whichever server consumes the queue to reload.
func EnqueueReload(ctx context.Context, client *redis.Client, trigger string) error {
	if client == nil {
		return errors.New("redis is not configured")
	}
	data, err := json.Marshal(ReloadRequest{Trigger: trigger, RequestedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := client.LPush(ctx, ReloadQueue, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue reload: %w", err)
	}
	return nil
}

// QueueConsumer pops reload requests and runs them one at a time.
type QueueConsumer struct {
	redis      *redis.Client
	trigger    Trigger
	logger     *zap.Logger
	popTimeout time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewQueueConsumer(redisClient *redis.Client, trigger Trigger, logger *zap.Logger) *QueueConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueConsumer{redis: redisClient, trigger: trigger, logger: logger, popTimeout: popTimeout}
}

// Start is non-blocking. Without Redis it does nothing.
func (q *QueueConsumer) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running || q.redis == nil {
		return
	}

	ctx, q.cancel = context.WithCancel(ctx)
	q.done = make(chan struct{})
	q.running = true

	go q.loop(ctx)
	q.logger.Info("reload queue consumer started", zap.String("queue", ReloadQueue))
}

// Stop cancels a pending pop and waits for the loop to exit.
func (q *QueueConsumer) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	q.cancel()
	done := q.done
	q.mu.Unlock()

	<-done
}

func (q *QueueConsumer) loop(ctx context.Context) {
	defer close(q.done)

	for {
		if ctx.Err() != nil {
			return
		}

		result, err := q.redis.BRPop(ctx, q.popTimeout, ReloadQueue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				q.logger.Warn("reload queue pop failed", zap.Error(err))
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var req ReloadRequest
		if err := json.Unmarshal([]byte(result[1]), &req); err != nil {
			q.logger.Warn("malformed reload request", zap.String("payload", result[1]), zap.Error(err))
			continue
		}
		trigger := "queue"
		if req.Trigger != "" {
			trigger = "queue:" + req.Trigger
		}
		q.trigger.Reload(ctx, trigger)
	}
}
