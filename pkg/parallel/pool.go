// Package parallel runs index ranges on a fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// job is one contiguous slice [start, end) of a Range call.
type job struct {
	start, end int
	fn         func(start, end int)
	wg         *sync.WaitGroup
}

// Pool is a fixed set of workers consuming range jobs. Range is safe for
// concurrent use, but callers of a single Range must not share mutable state
// across chunks other than memory each chunk owns exclusively.
//
// A nil *Pool is valid and runs every range inline on the calling goroutine.
type Pool struct {
	workers int
	jobs    chan job
	wg      sync.WaitGroup
	running atomic.Bool
	mu      sync.RWMutex
}

// NewPool starts a pool with the given number of workers. If workers is 0
// or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		jobs:    make(chan job, workers*2),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		j.fn(j.start, j.end)
		j.wg.Done()
	}
}

// Workers returns the number of worker goroutines, or 1 for a nil pool.
func (p *Pool) Workers() int {
	if p == nil {
		return 1
	}
	return p.workers
}

// Range splits [0, n) into at most Workers contiguous chunks, calls fn once
// per chunk and returns when every chunk has finished. The return is the
// barrier between pipeline phases: all writes made by fn happen before Range
// returns.
//
// fn must not call Range on the same pool: once the job queue fills, every
// worker can end up waiting on a nested Range that no worker is free to run.
func (p *Pool) Range(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if p == nil || p.workers == 1 || n == 1 {
		fn(0, n)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		fn(0, n)
		return
	}

	chunks := min(p.workers, n)
	size := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		wg.Add(1)
		p.jobs <- job{start: start, end: min(start+size, n), fn: fn, wg: &wg}
	}
	wg.Wait()
}

// Close stops the workers after queued jobs finish. Range calls made after
// Close run inline. Close is safe to call multiple times.
func (p *Pool) Close() {
	if p == nil || !p.running.CompareAndSwap(true, false) {
		return
	}
	p.mu.Lock()
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}
