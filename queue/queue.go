// Package queue runs jobs on a fixed set of workers behind a bounded buffer.
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var ErrQueueFull = errors.New("queue is full")

var ErrQueueClosed = errors.New("queue is closed")

// enqueueWait is how long Add waits for room before giving up.
var enqueueWait = 100 * time.Millisecond

type Job func(ctx context.Context)

type Queue struct {
	jobs    chan Job
	workers int
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	processing atomic.Int64
	done       atomic.Int64
	rejected   atomic.Int64
}

func New(workers, size int, log zerolog.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}
	return &Queue{
		jobs:    make(chan Job, size),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. They exit once Close has drained the buffer.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			for job := range q.jobs {
				q.processing.Add(1)
				job(ctx)
				q.processing.Add(-1)
				q.done.Add(1)
			}
			q.log.Trace().Int("worker", id).Msg("worker stopped")
		}(i)
	}
}

// Add hands job to a worker, waiting briefly when the buffer is full.
func (q *Queue) Add(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		q.log.Warn().Int("queued", len(q.jobs)).Msg("Queue is full, retrying...")

		timer := time.NewTimer(enqueueWait)
		defer timer.Stop()

		select {
		case q.jobs <- job:
			return nil
		case <-timer.C:
			q.rejected.Add(1)
			q.log.Error().Int("queued", len(q.jobs)).Msg("Failed to add job to queue after retry")
			return ErrQueueFull
		}
	}
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}

type Stats struct {
	Queued     int
	Processing int64
	Done       int64
	Rejected   int64
}

func (q *Queue) Stats() Stats {
	return Stats{
		Queued:     len(q.jobs),
		Processing: q.processing.Load(),
		Done:       q.done.Load(),
		Rejected:   q.rejected.Load(),
	}
}
