package worker

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// HistoryWatcher reloads when the local history file changes. It watches the
// parent directory so files replaced by rename are still seen.
type HistoryWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	trigger  Trigger
	logger   *zap.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

func NewHistoryWatcher(path string, trigger Trigger, logger *zap.Logger) (*HistoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return &HistoryWatcher{
		watcher:  w,
		path:     abs,
		trigger:  trigger,
		logger:   logger,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start is non-blocking.
func (hw *HistoryWatcher) Start(ctx context.Context) error {
	hw.mu.Lock()
	if hw.running {
		hw.mu.Unlock()
		return nil
	}
	hw.running = true
	hw.mu.Unlock()

	dir := filepath.Dir(hw.path)
	if err := hw.watcher.Add(dir); err != nil {
		hw.mu.Lock()
		hw.running = false
		hw.mu.Unlock()
		return err
	}
	hw.logger.Info("watching history file", zap.String("path", hw.path))

	go hw.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its loop to exit.
func (hw *HistoryWatcher) Stop() {
	hw.mu.Lock()
	if !hw.running {
		hw.mu.Unlock()
		hw.watcher.Close()
		return
	}
	hw.running = false
	hw.mu.Unlock()

	close(hw.stopCh)
	<-hw.doneCh

	if err := hw.watcher.Close(); err != nil {
		hw.logger.Warn("closing history watcher", zap.Error(err))
	}
}

func (hw *HistoryWatcher) run(ctx context.Context) {
	defer close(hw.doneCh)

	tick := time.NewTicker(hw.debounce / 5)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hw.stopCh:
			return

		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}
			hw.handleEvent(event)

		case err, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
			hw.logger.Warn("history watcher error", zap.Error(err))

		case <-tick.C:
			if hw.due(time.Now()) {
				hw.trigger.Reload(ctx, "watch")
			}
		}
	}
}

func (hw *HistoryWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != hw.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	hw.logger.Debug("history file changed", zap.String("op", event.Op.String()))
	hw.mu.Lock()
	hw.pending = time.Now()
	hw.mu.Unlock()
}

// due reports whether a change has been quiet for the debounce period, and
// clears it if so.
func (hw *HistoryWatcher) due(now time.Time) bool {
	hw.mu.Lock()
	defer hw.mu.Unlock()
	if hw.pending.IsZero() || now.Sub(hw.pending) < hw.debounce {
		return false
	}
	hw.pending = time.Time{}
	return true
}
