// Package parallel schedules row bands of raster operations across a
// persistent set of goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// bandsPerWorker oversubscribes bands so that a slow band (large kernel
// near a busy region) does not leave other workers idle.
const bandsPerWorker = 4

// Pool is a persistent pool of goroutines that execute row bands.
//
// Each worker owns a queue and steals from the others when its own queue is
// empty. Bands write disjoint output rows, so no locking is needed inside
// the band functions themselves.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// mu orders enqueueing against Close: sends happen under the read
	// lock, Close flips running under the write lock.
	mu sync.RWMutex
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*bandsPerWorker, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case fn := <-own:
			fn()
		default:
			if fn := p.steal(id); fn != nil {
				fn()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case fn := <-own:
				fn()
			}
		}
	}
}

func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case fn := <-queue:
			fn()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// Run executes every task and waits for all of them. On a closed pool the
// tasks run sequentially on the calling goroutine.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if !p.running.Load() || len(tasks) == 1 {
		for _, fn := range tasks {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, fn := range tasks {
		task := func() {
			defer wg.Done()
			fn()
		}
		if !p.enqueue(i%p.workers, task) {
			task()
		}
	}
	wg.Wait()
}

// enqueue hands task to worker id's queue. It reports false when the pool
// has been closed, in which case the caller runs the task itself.
func (p *Pool) enqueue(id int, task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return false
	}
	p.queues[id] <- task
	return true
}

// Rows splits [0, n) into contiguous bands and calls fn(start, end) for
// each band in parallel. The context is checked before each band starts;
// when it is cancelled the remaining bands are skipped and ctx.Err() is
// returned. Callers must discard their output in that case.
func (p *Pool) Rows(ctx context.Context, n int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	bands := min(p.workers*bandsPerWorker, n)
	size := (n + bands - 1) / bands

	tasks := make([]func(), 0, bands)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		tasks = append(tasks, func() {
			if ctx.Err() != nil {
				return
			}
			fn(start, end)
		})
	}
	p.Run(tasks)
	return ctx.Err()
}

// Close stops the workers after the queued work has finished.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		return
	}
	p.running.Store(false)
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
