package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Result is the outcome of one call. Index is the position of its input.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total     int
	Completed int
	Failed    int
}

// Summarize counts completed and failed results.
func Summarize[T any](results []Result[T]) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) || errors.Is(r.Err, context.DeadlineExceeded) {
			continue
		}
		s.Completed++
		if r.Err != nil {
			s.Failed++
		}
	}
	return s
}

// Run calls fn for every item using at most workers goroutines and returns
// one Result per item, in input order. workers <= 0 means runtime.NumCPU().
// Items not started before ctx is done get ctx.Err() as their error.
func Run[In, Out any](ctx context.Context, items []In, workers int, fn func(context.Context, In) (Out, error)) []Result[Out] {
	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Small batches run inline
	if len(items) <= 2 || workers == 1 {
		for i, item := range items {
			results[i] = call(ctx, i, item, fn)
		}
		return results
	}

	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = call(ctx, i, items[i], fn)
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func call[In, Out any](ctx context.Context, i int, item In, fn func(context.Context, In) (Out, error)) Result[Out] {
	if err := ctx.Err(); err != nil {
		return Result[Out]{Index: i, Err: err}
	}
	v, err := fn(ctx, item)
	return Result[Out]{Index: i, Value: v, Err: err}
}
