package session

import (
	"context"
	"time"

	"reactsync/internal/logging"
)

// Run polls the players until ctx is cancelled, waiting the engine's
// current sync interval between ticks. Progress is saved once more on exit.
func (c *Coordinator) Run(ctx context.Context) error {
	c.logger.Info("session started", logging.String(logging.FieldEventType, "session_start"))

	timer := time.NewTimer(c.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := c.SaveProgress(context.WithoutCancel(ctx)); err != nil {
				logging.WarnWithContext(c.logger, "final progress save failed", "progress_save_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "resume point may be stale"),
				)
			}
			c.logger.Info("session stopped", logging.String(logging.FieldEventType, "session_stop"))
			return nil
		case <-timer.C:
			c.Tick(ctx)
			timer.Reset(c.interval())
		}
	}
}

func (c *Coordinator) interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.SyncInterval()
}
