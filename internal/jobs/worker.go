package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/sjperalta/dealership-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs fire-and-forget tasks (emails, events) and scheduled tasks
// (dashboard refresh, overdue digest) on bounded goroutines.
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	queue   chan namedJob
	sem     chan struct{}
	limit   int
	stats   WorkerStats
	statsMu sync.RWMutex
	closing sync.Once
}

type namedJob struct {
	name string
	run  Job
}

// WorkerStats holds statistics about the worker. FinishedJobs counts
// successes and failures; FailedJobs is the failed subset.
type WorkerStats struct {
	ActiveJobs    int       `json:"active_jobs"`
	FinishedJobs  int64     `json:"finished_jobs"`
	FailedJobs    int64     `json:"failed_jobs"`
	QueueLength   int       `json:"queue_length"`
	MaxConcurrent int       `json:"max_concurrent"`
	Scheduled     []string  `json:"scheduled"`
	StartedAt     time.Time `json:"started_at"`
}

// NewWorker creates a worker with N queue processors
func NewWorker(numWorkers int) *Worker {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	limit := numWorkers * 2
	if limit < 10 {
		limit = 10
	}

	w := &Worker{
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan namedJob, 100),
		sem:    make(chan struct{}, limit),
		limit:  limit,
	}
	w.stats.StartedAt = time.Now()

	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	return w
}

// Enqueue adds a job to the queue. When the queue is full the job runs
// on the caller's goroutine.
func (w *Worker) Enqueue(name string, job Job) {
	if w.ctx.Err() != nil {
		logger.Warn("Worker stopped, job dropped", "job", name)
		return
	}
	select {
	case w.queue <- namedJob{name: name, run: job}:
	default:
		logger.Warn("Worker queue full, running job inline", "job", name)
		w.run("inline", name, job)
	}
}

// EnqueueAsync runs a job in its own goroutine, bounded by a semaphore
func (w *Worker) EnqueueAsync(name string, job Job) {
	if w.ctx.Err() != nil {
		logger.Warn("Worker stopped, job dropped", "job", name)
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case w.sem <- struct{}{}:
		case <-w.ctx.Done():
			return
		}
		defer func() { <-w.sem }()
		w.run("async", name, job)
	}()
}

func (w *Worker) process(workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job, ok := <-w.queue:
			if !ok {
				return
			}
			w.run("queue", job.name, job.run)
		}
	}
}

// run executes one job with panic recovery and stats tracking.
func (w *Worker) run(kind, name string, job Job) {
	w.trackJobStart()
	start := time.Now()
	failed := false

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panic", "kind", kind, "job", name, "panic", r)
			failed = true
		}
		w.trackJobEnd(failed)
	}()

	if err := job(w.ctx); err != nil {
		logger.Error("Job failed", "kind", kind, "job", name, "error", err)
		failed = true
		return
	}
	logger.Debug("Job completed", "kind", kind, "job", name, "duration", time.Since(start))
}

// ScheduleEvery runs a job at fixed intervals. With immediate set it also
// runs once right away.
func (w *Worker) ScheduleEvery(name string, interval time.Duration, immediate bool, job Job) {
	w.registerSchedule(name)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if immediate {
			w.run("schedule", name, job)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.run("schedule", name, job)
			}
		}
	}()
}

// ScheduleDaily runs a job every day at hour:minute in loc.
func (w *Worker) ScheduleDaily(name string, hour, minute int, loc *time.Location, job Job) {
	w.registerSchedule(name)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			timer := time.NewTimer(time.Until(NextDailyRun(time.Now().In(loc), hour, minute)))
			select {
			case <-w.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				w.run("schedule", name, job)
			}
		}
	}()
}

// NextDailyRun returns the next time after now at hour:minute in now's location.
func NextDailyRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Shutdown stops the schedulers and waits for running jobs
func (w *Worker) Shutdown() {
	w.closing.Do(func() {
		w.cancel()
		close(w.queue)
		w.wg.Wait()
	})
}

// GetStats returns the current worker statistics
func (w *Worker) GetStats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	stats := w.stats
	stats.Scheduled = append([]string(nil), w.stats.Scheduled...)
	stats.QueueLength = len(w.queue)
	stats.MaxConcurrent = w.limit
	return stats
}

func (w *Worker) registerSchedule(name string) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.Scheduled = append(w.stats.Scheduled, name)
}

func (w *Worker) trackJobStart() {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs++
}

func (w *Worker) trackJobEnd(failed bool) {
	w.statsMu.Lock()
	defer w.statsMu.Unlock()
	w.stats.ActiveJobs--
	w.stats.FinishedJobs++
	if failed {
		w.stats.FailedJobs++
	}
}
