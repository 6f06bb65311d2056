package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gameshelf/internal/domain"
	"gameshelf/internal/pkg/metrics"
)

// Executor performs one job against its channel adapter.
type Executor interface {
	Execute(ctx context.Context, job domain.DispatchJob) domain.DispatchResult
}

// Queue runs dispatch jobs one at a time in submission order on a single
// background goroutine. The goroutine exists only while there is work: Submit
// starts it from idle and it exits once the backlog is empty. Pending jobs are
// held in memory only and are lost when the process exits.
type Queue struct {
	executor Executor
	delay    time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	jobs    []domain.DispatchJob
	running bool
	idle    chan struct{}
}

func NewQueue(executor Executor, delay time.Duration, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		executor: executor,
		delay:    delay,
		logger:   logger.With(slog.String("component", "dispatch_queue")),
	}
}

// Submit appends the job and returns immediately.
func (q *Queue) Submit(job domain.DispatchJob) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	metrics.DispatchQueueDepth.Inc()

	start := !q.running
	if start {
		q.running = true
		q.idle = make(chan struct{})
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
}

// Depth is the number of jobs not yet started.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Running reports whether the worker goroutine is active.
func (q *Queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Wait blocks until the queue is idle or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return nil
	}
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) drain() {
	for {
		job, ok := q.pop()
		if !ok {
			return
		}

		q.run(job)

		if q.delay > 0 {
			time.Sleep(q.delay)
		}
	}
}

// pop takes the head job, or flips the queue back to idle when there is none.
func (q *Queue) pop() (domain.DispatchJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		q.running = false
		close(q.idle)
		return domain.DispatchJob{}, false
	}

	job := q.jobs[0]
	q.jobs[0] = domain.DispatchJob{}
	q.jobs = q.jobs[1:]
	metrics.DispatchQueueDepth.Dec()
	return job, true
}

func (q *Queue) run(job domain.DispatchJob) {
	start := time.Now()
	result := q.execute(job)
	elapsed := time.Since(start)

	channel := string(job.Channel)
	metrics.DispatchDuration.WithLabelValues(channel).Observe(elapsed.Seconds())
	metrics.DispatchJobs.WithLabelValues(channel, string(result.Outcome)).Inc()

	attrs := []any{
		slog.String("channel", channel),
		slog.String("user_id", job.UserID.String()),
		slog.String("type", string(job.Payload.Type)),
		slog.String("outcome", string(result.Outcome)),
		slog.Duration("elapsed", elapsed),
	}

	switch result.Outcome {
	case domain.OutcomeDelivered:
		q.logger.Debug("dispatch delivered", append(attrs, slog.String("message_id", result.MessageID))...)
	case domain.OutcomeFailed:
		q.logger.Warn("dispatch failed, dropping job",
			append(attrs, slog.Any("error", result.Err), slog.Int("attempts", domain.MaxDeliveryAttempts))...)
	default:
		q.logger.Debug("dispatch skipped", attrs...)
	}
}

// execute contains adapter panics so one bad job cannot kill the worker.
func (q *Queue) execute(job domain.DispatchJob) (result domain.DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.DispatchResult{
				Job:     job,
				Outcome: domain.OutcomeFailed,
				Err:     fmt.Errorf("panic during dispatch: %v", r),
			}
		}
	}()

	return q.executor.Execute(context.Background(), job)
}
