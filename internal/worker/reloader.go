// Package worker keeps the loaded history fresh. Reloads are triggered by
// file changes, a Redis queue, a timer, or the admin API; all of them go
// through Reloader.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"practicelog/internal/models"
)

const (
	EventReloaded     = "history_reloaded"
	EventReloadFailed = "history_reload_failed"
)

type historyLoader interface {
	Load(ctx context.Context) (*models.History, error)
}

type pageFlusher interface {
	Flush(ctx context.Context) error
}

type notifier interface {
	Notify(ctx context.Context, event models.HistoryEvent) error
}

// Trigger is anything that can ask for a reload.
type Trigger interface {
	Reload(ctx context.Context, trigger string) models.HistoryEvent
}

// Reloader reloads the history, drops cached question pages and tells
// connected viewers. cache and hub may be nil.
type Reloader struct {
	mu     sync.Mutex
	repo   historyLoader
	cache  pageFlusher
	hub    notifier
	logger *zap.Logger
	now    func() time.Time
}

func NewReloader(repo historyLoader, cache pageFlusher, hub notifier, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reloader{
		repo:   repo,
		cache:  cache,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

// Reload runs one reload. A failed load still leaves the repository serving
// an empty history, so the event is sent either way.
func (r *Reloader) Reload(ctx context.Context, trigger string) models.HistoryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := models.HistoryEvent{
		Type:    EventReloaded,
		Trigger: trigger,
	}

	h, err := r.repo.Load(ctx)
	if err != nil {
		event.Type = EventReloadFailed
		event.Error = err.Error()
	}
	if h != nil {
		event.Records = len(h.Records)
		event.LastUpdated = h.LastUpdated
	}
	event.At = r.now().UTC()

	if r.cache != nil {
		if err := r.cache.Flush(ctx); err != nil {
			r.logger.Warn("page cache flush failed", zap.Error(err))
		}
	}
	if r.hub != nil {
		if err := r.hub.Notify(ctx, event); err != nil {
			r.logger.Warn("history event not delivered", zap.String("type", event.Type), zap.Error(err))
		}
	}

	r.logger.Info("history reload",
		zap.String("trigger", trigger),
		zap.String("type", event.Type),
		zap.Int("records", event.Records),
	)
	return event
}
