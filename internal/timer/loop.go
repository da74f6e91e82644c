package timer

import (
	"context"
	"time"
)

// Loop calls fn on every tick until ctx is cancelled. It returns once the
// ticker is stopped, so no callback outlives the owner's context.
func Loop(ctx context.Context, interval time.Duration, fn func(now time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}
