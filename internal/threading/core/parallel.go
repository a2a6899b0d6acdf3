package core

import (
	"context"
	"runtime"
	"sync"

	"hamlet/internal/mathutil"
)

// ParallelForEach executes a function in parallel for each item in a slice.
// This is a convenience wrapper around ParallelForEachWithContext using context.Background().
func ParallelForEach[T any](items []T, fn func(T)) {
	ParallelForEachWithContext(context.Background(), items, fn)
}

// ParallelForEachWithContext executes a function in parallel for each item in a slice
// with cancellation support via context. Goroutines check for cancellation between items.
func ParallelForEachWithContext[T any](ctx context.Context, items []T, fn func(T)) {
	if len(items) == 0 {
		return
	}

	numWorkers := mathutil.IntMin(runtime.NumCPU(), len(items))
	chunkSize := mathutil.IntMax(1, (len(items)+numWorkers-1)/numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < len(items); i += chunkSize {
		end := mathutil.IntMin(i+chunkSize, len(items))
		chunk := items[i:end]

		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, item := range chunk {
				select {
				case <-ctx.Done():
					return
				default:
					fn(item)
				}
			}
		}(chunk)
	}

	wg.Wait()
}
