package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSingleWorkerRunsJobsInOrder(t *testing.T) {
	q := New(1, 10, zerolog.Nop())
	q.Start(context.Background())

	var mu sync.Mutex
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		if err := q.Add(func(context.Context) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	q.Close()

	for i, v := range order {
		if v != i {
			t.Fatalf("jobs ran out of order: %v", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 jobs, ran %d", len(order))
	}
	if s := q.Stats(); s.Done != 5 || s.Rejected != 0 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestSingleWorkerNeverOverlaps(t *testing.T) {
	q := New(1, 10, zerolog.Nop())
	q.Start(context.Background())

	var running, maxRunning atomic.Int32
	for i := 0; i < 5; i++ {
		if err := q.Add(func(context.Context) {
			n := running.Add(1)
			if n > maxRunning.Load() {
				maxRunning.Store(n)
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}); err != nil {
			t.Fatal(err)
		}
	}
	q.Close()

	if maxRunning.Load() != 1 {
		t.Fatalf("jobs overlapped: %d", maxRunning.Load())
	}
}

func TestAddFullQueue(t *testing.T) {
	q := New(1, 0, zerolog.Nop())
	release := make(chan struct{})
	started := make(chan struct{})
	q.Start(context.Background())

	if err := q.Add(func(context.Context) {
		close(started)
		<-release
	}); err != nil {
		t.Fatal(err)
	}
	<-started

	if err := q.Add(func(context.Context) {}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	close(release)
	q.Close()

	if s := q.Stats(); s.Rejected != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestAddAfterClose(t *testing.T) {
	q := New(2, 1, zerolog.Nop())
	q.Start(context.Background())
	q.Close()
	q.Close()

	if err := q.Add(func(context.Context) {}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}
