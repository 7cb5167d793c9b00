// Package scheduler runs periodic background tasks.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task is one unit of periodic work.
type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is done.
// Runs never overlap: a tick that fires while the task is running is dropped.
// Task errors are logged and do not stop the loop. It returns ctx.Err().
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("task", name))

	run := func() {
		start := time.Now()
		if err := task(ctx); err != nil {
			logger.Error("scheduled task failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		logger.Debug("scheduled task finished", zap.Duration("duration", time.Since(start)))
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	run()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			run()
		}
	}
}
