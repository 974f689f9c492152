// ABOUTME: Simple worker pool for parallelizing batch tasks
// ABOUTME: Submit-and-wait tasks plus an order-preserving, cancellable Map over a slice

package pool

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
	closed   sync.Once
}

// NewWorkerPool starts workers goroutines, or one per CPU when workers <= 0.
// The bufferSize determines the task channel capacity.
func NewWorkerPool(workers, bufferSize int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), bufferSize),
	}

	for range workers {
		pool.workerWg.Add(1)

		go func() {
			defer pool.workerWg.Done()

			for task := range pool.taskChan {
				task()
				pool.taskWg.Done()
			}
		}()
	}

	return pool
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool
// Blocks if the task channel is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the worker pool and waits for all workers to exit.
// Calling Close more than once is safe.
func (p *WorkerPool) Close() {
	p.closed.Do(func() {
		close(p.taskChan)
	})

	p.workerWg.Wait()
}

// Map applies fn to every item on a pool of workers and returns the results in
// item order. Items not yet started when ctx is done are skipped, and Map then
// returns ctx.Err() with the results gathered so far.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, ctx.Err()
	}

	p := NewWorkerPool(min(max(workers, 0), len(items)), len(items))
	defer p.Close()

	for i, item := range items {
		p.Submit(func() {
			if ctx.Err() != nil {
				return
			}

			results[i] = fn(ctx, item)
		})
	}

	p.Wait()

	return results, ctx.Err()
}
