package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"practicelog/internal/feed"
	"practicelog/internal/models"
	"practicelog/internal/sessions"
)

// HistoryRepo holds the loaded history. Each Load replaces the snapshot
// whole; readers never see a partial history.
type HistoryRepo struct {
	source feed.Source
	file   string
	logger *zap.Logger

	mu       sync.Mutex // serialises Load
	current  atomic.Pointer[models.History]
	loadedAt atomic.Int64
}

func NewHistoryRepo(source feed.Source, file string, logger *zap.Logger) *HistoryRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &HistoryRepo{source: source, file: file, logger: logger}
	r.current.Store(emptyHistory())
	return r
}

func emptyHistory() *models.History {
	return &models.History{Records: []models.SessionRecord{}}
}

// Load fetches the feed once. On failure the repository holds an empty
// history and the error is returned for reporting only.
func (r *HistoryRepo) Load(ctx context.Context) (*models.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, err := feed.LoadHistory(ctx, r.source, r.file)
	if err != nil {
		r.logger.Warn("history load failed, serving empty history",
			zap.String("source", r.source.Location()),
			zap.String("file", r.file),
			zap.Error(err),
		)
		h = emptyHistory()
		r.current.Store(h)
		r.loadedAt.Store(time.Now().UnixNano())
		return h, err
	}

	h.Records = sessions.SortNewestFirst(h.Records)
	r.current.Store(h)
	r.loadedAt.Store(time.Now().UnixNano())

	r.logger.Info("history loaded",
		zap.String("source", r.source.Location()),
		zap.Int("records", len(h.Records)),
		zap.String("last_updated", h.LastUpdated),
	)
	return h, nil
}

// History returns the current snapshot. Callers must not modify it.
func (r *HistoryRepo) History() *models.History {
	return r.current.Load()
}

// Records is History().Records.
func (r *HistoryRepo) Records() []models.SessionRecord {
	return r.History().Records
}

// LoadedAt is the time of the last Load, zero before the first.
func (r *HistoryRepo) LoadedAt() time.Time {
	ns := r.loadedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (r *HistoryRepo) Source() feed.Source {
	return r.source
}

func (r *HistoryRepo) File() string {
	return r.file
}
