// Package concurrency has small fan-out helpers.
package concurrency

import (
	"context"
	"sync"
)

// WorkerFn handles one task index.
type WorkerFn func(ctx context.Context, index int)

// ForEach runs fn for every index in [0, tasks) on at most workers
// goroutines and returns once all started tasks finish. Tasks not yet
// started when ctx is cancelled are skipped.
func ForEach(ctx context.Context, workers, tasks int, fn WorkerFn) {
	if tasks <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > tasks {
		workers = tasks
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				fn(ctx, idx)
			}
		}()
	}

feed:
	for i := 0; i < tasks; i++ {
		select {
		case indexes <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexes)
	wg.Wait()
}

// Map applies fn to every element of in concurrently and returns the
// results in input order.
func Map[T, R any](ctx context.Context, workers int, in []T, fn func(ctx context.Context, item T) R) []R {
	out := make([]R, len(in))
	ForEach(ctx, workers, len(in), func(ctx context.Context, i int) {
		out[i] = fn(ctx, in[i])
	})
	return out
}
