package bimap

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minEntriesPerChunk is the smallest estimated chunk worth a goroutine.
const minEntriesPerChunk = 256

// ParallelForEach splits sp and calls fn on every element from up to
// parallelism goroutines. A parallelism of zero or less uses GOMAXPROCS.
//
// fn must be safe for concurrent use and must not modify the map. The
// first error returned by fn, a traversal error or the cancellation of ctx
// stops the remaining work and is returned.
func ParallelForEach[T any](
	ctx context.Context,
	sp *Spliterator[T],
	parallelism int,
	fn func(T) error,
) error {
	if fn == nil {
		return fmt.Errorf("%w: nil function", ErrInvalidArgument)
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	_, chunks := calcParallelism(sp.EstimateSize(), minEntriesPerChunk, parallelism)
	parts := splitInto(sp, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, part := range parts {
		g.Go(func() error {
			var ferr error
			err := part.ForEachRemaining(func(v T) bool {
				if ferr = ctx.Err(); ferr != nil {
					return false
				}
				ferr = fn(v)
				return ferr == nil
			})
			if ferr != nil {
				return ferr
			}
			return err
		})
	}
	return g.Wait()
}

// splitInto splits sp until there are at least n parts or nothing splits.
func splitInto[T any](sp *Spliterator[T], n int) []*Spliterator[T] {
	parts := []*Spliterator[T]{sp}
	for len(parts) < n {
		next := make([]*Spliterator[T], 0, len(parts)*2)
		for _, p := range parts {
			if prefix := p.TrySplit(); prefix != nil {
				next = append(next, prefix)
			}
			next = append(next, p)
		}
		if len(next) == len(parts) {
			break
		}
		parts = next
	}
	return parts
}

// calcParallelism calculates the number of goroutines for parallel processing.
//
// Parameters:
//   - items: Number of items to process.
//   - threshold: Minimum threshold to enable parallel processing.
//   - cpus: Number of goroutines allowed.
//
// Returns:
//   - chunkSize: Number of items processed per goroutine
//   - chunks: Suggested degree of parallelism (number of goroutines).
func calcParallelism(items, threshold, cpus int) (chunkSize, chunks int) {
	// If the items is too small, use single-threaded processing.
	if items <= threshold {
		return items, 1
	}

	chunks = min(items/threshold, cpus)

	chunkSize = (items + chunks - 1) / chunks

	return chunkSize, chunks
}
