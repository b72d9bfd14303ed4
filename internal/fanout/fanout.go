// Package fanout runs independent calls concurrently and collects every
// outcome. One call failing never aborts its siblings; the caller decides what
// a partial result set means.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one call, in the order the calls were given.
type Result[T any] struct {
	Value T
	Err   error
}

// Gather executes calls with at most limit running concurrently (limit <= 0
// means unbounded) and returns one Result per call. Cancellation of ctx is
// the only thing that stops the whole batch early; each call observes it
// through its own context argument.
func Gather[T any](ctx context.Context, limit int, calls []func(context.Context) (T, error)) []Result[T] {
	results := make([]Result[T], len(calls))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, call := range calls {
		g.Go(func() error {
			value, err := call(gctx)
			results[i] = Result[T]{Value: value, Err: err}
			// Errors stay in the slot; returning them would cancel siblings.
			return nil
		})
	}

	// Wait never returns an error because the goroutines swallow theirs.
	_ = g.Wait()

	return results
}

// FirstError returns the first non-nil error among results, or nil.
func FirstError[T any](results []Result[T]) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// AllFailed reports whether every call in the batch returned an error.
func AllFailed[T any](results []Result[T]) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Err == nil {
			return false
		}
	}
	return true
}
