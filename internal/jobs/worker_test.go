package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorker_EnqueueAndStats(t *testing.T) {
	w := NewWorker(2)

	var wg sync.WaitGroup
	wg.Add(3)
	w.Enqueue("ok", func(ctx context.Context) error { wg.Done(); return nil })
	w.EnqueueAsync("fails", func(ctx context.Context) error { wg.Done(); return errors.New("boom") })
	w.EnqueueAsync("panics", func(ctx context.Context) error { wg.Done(); panic("boom") })
	wg.Wait()

	w.Shutdown()

	stats := w.GetStats()
	assert.Equal(t, int64(3), stats.FinishedJobs)
	assert.Equal(t, int64(2), stats.FailedJobs)
	assert.Equal(t, 0, stats.ActiveJobs)
	assert.Equal(t, 10, stats.MaxConcurrent)
}

func TestWorker_ScheduleEveryImmediate(t *testing.T) {
	w := NewWorker(1)
	ran := make(chan struct{}, 1)
	w.ScheduleEvery("refresh", time.Hour, true, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate scheduled job did not run")
	}
	w.Shutdown()
	assert.Equal(t, []string{"refresh"}, w.GetStats().Scheduled)
}

func TestWorker_DropsAfterShutdown(t *testing.T) {
	w := NewWorker(1)
	w.Shutdown()
	w.Shutdown()

	called := false
	w.EnqueueAsync("late", func(ctx context.Context) error { called = true; return nil })
	w.Enqueue("late", func(ctx context.Context) error { called = true; return nil })
	assert.False(t, called)
}

func TestNextDailyRun(t *testing.T) {
	loc := time.UTC
	before := time.Date(2024, 5, 10, 6, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 10, 8, 0, 0, 0, loc), NextDailyRun(before, 8, 0))

	after := time.Date(2024, 5, 10, 8, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 11, 8, 0, 0, 0, loc), NextDailyRun(after, 8, 0))
}
