package worker

import (
	"context"
	"time"
)

// Refresher reloads on a fixed interval.
type Refresher struct {
	trigger  Trigger
	interval time.Duration
}

func NewRefresher(trigger Trigger, interval time.Duration) *Refresher {
	return &Refresher{trigger: trigger, interval: interval}
}

// Run blocks until ctx is done. A non-positive interval disables it.
func (r *Refresher) Run(ctx context.Context) error {
	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.trigger.Reload(ctx, "interval")
		}
	}
}
