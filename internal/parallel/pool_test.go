package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("pool should be running after creation")
	}
}

func TestPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -3} {
		pool := NewPool(n)
		if pool.Workers() != runtime.GOMAXPROCS(0) {
			t.Errorf("NewPool(%d).Workers() = %d, want GOMAXPROCS", n, pool.Workers())
		}
		pool.Close()
	}
}

func TestPool_Run(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var counter atomic.Int64
	tasks := make([]func(), 100)
	for i := range tasks {
		tasks[i] = func() { counter.Add(1) }
	}
	pool.Run(tasks)

	if got := counter.Load(); got != 100 {
		t.Errorf("counter = %d, want 100", got)
	}
}

func TestPool_RowsCoversEveryRowOnce(t *testing.T) {
	pool := NewPool(3)
	defer pool.Close()

	for _, n := range []int{1, 2, 7, 64, 1001} {
		hits := make([]int32, n)
		err := pool.Rows(context.Background(), n, func(start, end int) {
			for y := start; y < end; y++ {
				atomic.AddInt32(&hits[y], 1)
			}
		})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		for y, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: row %d visited %d times", n, y, h)
			}
		}
	}
}

func TestPool_RowsCancelled(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := pool.Rows(ctx, 100, func(start, end int) { calls.Add(1) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("%d bands ran after cancellation", calls.Load())
	}
}

func TestPool_RowsEmpty(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	if err := pool.Rows(context.Background(), 0, func(int, int) { t.Error("called") }); err != nil {
		t.Errorf("err = %v", err)
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}

	var counter atomic.Int64
	pool.Run([]func(){
		func() { counter.Add(1) },
		func() { counter.Add(1) },
	})
	if counter.Load() != 2 {
		t.Errorf("closed pool ran %d tasks, want 2 inline", counter.Load())
	}
}

func TestPool_CloseIdempotent(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()
}

func TestPool_CloseDuringRun(t *testing.T) {
	const tasks = 2000
	for iter := range 20 {
		pool := NewPool(4)
		var counter atomic.Int64
		work := make([]func(), tasks)
		for i := range work {
			work[i] = func() {
				time.Sleep(10 * time.Microsecond)
				counter.Add(1)
			}
		}

		finished := make(chan struct{})
		go func() {
			pool.Run(work)
			close(finished)
		}()
		time.Sleep(500 * time.Microsecond)
		pool.Close()

		select {
		case <-finished:
		case <-time.After(10 * time.Second):
			t.Fatalf("iteration %d: Run did not return after Close", iter)
		}
		if n := counter.Load(); n != tasks {
			t.Fatalf("iteration %d: ran %d tasks, want %d", iter, n, tasks)
		}
	}
}

func TestPool_ConcurrentRows(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	var total atomic.Int64
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Rows(context.Background(), 50, func(start, end int) {
				total.Add(int64(end - start))
			})
		}()
	}
	wg.Wait()

	if total.Load() != 8*50 {
		t.Errorf("total rows = %d, want %d", total.Load(), 8*50)
	}
}

func BenchmarkPool_Rows(b *testing.B) {
	pool := NewPool(0)
	defer pool.Close()

	ctx := context.Background()
	b.ReportAllocs()
	for b.Loop() {
		_ = pool.Rows(ctx, 1080, func(start, end int) {})
	}
}
