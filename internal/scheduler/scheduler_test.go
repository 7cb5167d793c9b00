package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvery_RunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- Every(ctx, 10*time.Millisecond, "count", func(context.Context) error {
			if runs.Add(1) == 3 {
				cancel()
			}
			return nil
		}, nil)
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestEvery_ContinuesAfterError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		_ = Every(ctx, 5*time.Millisecond, "failing", func(context.Context) error {
			if runs.Add(1) >= 2 {
				cancel()
			}
			return errors.New("boom")
		}, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestEvery_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var runs atomic.Int32

	err := Every(ctx, time.Hour, "once", func(context.Context) error {
		runs.Add(1)
		return nil
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), runs.Load())
}
