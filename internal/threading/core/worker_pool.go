package core

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel processing
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// Start initializes and starts all worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit adds a job to the worker queue
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait waits for all currently queued jobs to complete
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts down the worker pool. It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.quit)
	})
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// ParallelChunks splits [start, end) into at most GetNumWorkers contiguous
// chunks and runs fn once per chunk. The chunk index is in
// [0, GetNumWorkers) so callers can keep per-chunk scratch state. It
// returns once every chunk has finished.
func (wp *WorkerPool) ParallelChunks(start, end int, fn func(chunk, lo, hi int)) {
	wp.ParallelChunksWithContext(context.Background(), start, end, fn)
}

// ParallelChunksWithContext is ParallelChunks that skips chunks not yet
// started when ctx is cancelled.
func (wp *WorkerPool) ParallelChunksWithContext(ctx context.Context, start, end int, fn func(chunk, lo, hi int)) {
	if start >= end {
		return
	}

	totalWork := end - start
	chunkSize := (totalWork + wp.numWorkers - 1) / wp.numWorkers

	chunk := 0
	for i := start; i < end; i += chunkSize {
		chunkIndex := chunk
		chunkStart := i
		chunkEnd := min(i+chunkSize, end)
		chunk++

		wp.Submit(func() {
			select {
			case <-ctx.Done():
				return
			default:
				fn(chunkIndex, chunkStart, chunkEnd)
			}
		})
	}
	wp.Wait()
}
