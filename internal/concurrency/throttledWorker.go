package concurrency

import (
	"context"
	"sync"
)

type Result[T any] struct {
	Arg   string
	Value T
	Err   error
}

// ThrottledWorker runs a job for every argument in parallel, at most limit at
// a time, and returns once every job has finished.
type ThrottledWorker[T any] struct {
	limit       int
	jobCallback func(ctx context.Context, arg string) (T, error)
}

func NewThrottledWorker[T any](limit int, jobCallback func(ctx context.Context, arg string) (T, error)) ThrottledWorker[T] {
	if limit < 1 {
		limit = 1
	}
	return ThrottledWorker[T]{limit: limit, jobCallback: jobCallback}
}

// Run returns results in the same order as jobArgs.
func (w *ThrottledWorker[T]) Run(ctx context.Context, jobArgs []string) []Result[T] {

	results := make([]Result[T], len(jobArgs))
	limiter := make(chan struct{}, w.limit)

	// counts down as jobs complete
	var pending sync.WaitGroup
	pending.Add(len(jobArgs))

	for i, arg := range jobArgs {
		go func(i int, arg string) {
			defer pending.Done()

			select {
			case limiter <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result[T]{Arg: arg, Err: ctx.Err()}
				return
			}
			defer func() { <-limiter }()

			v, err := w.jobCallback(ctx, arg)
			results[i] = Result[T]{Arg: arg, Value: v, Err: err}
		}(i, arg)
	}

	pending.Wait()
	return results
}
