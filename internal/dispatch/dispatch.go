// Package dispatch implements the bounded-channel worker pool that turns
// walker.Result file entries into result.FileResults, per spec.md 4.6.
package dispatch

import (
	"context"
	"regexp"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/73ai/ru/internal/mmapfile"
	"github.com/73ai/ru/internal/result"
	"github.com/73ai/ru/internal/scanner"
	"github.com/73ai/ru/internal/walker"
)

// Run wires the walker's output to W-1 worker goroutines that each
// memory-map a file, scan it, and forward the FileResult on the returned
// channel. The channel has capacity 2*W, matching spec.md 4.6's bounded
// queue, and is closed once every worker has drained files and returned.
//
// re and opts are shared read-only across all workers. A semaphore bounds
// the number of files mapped into memory at once to W, so resident memory
// stays proportional to the worker count rather than to how far ahead of
// the workers the walker has run.
func Run(ctx context.Context, files <-chan walker.Result, re *regexp.Regexp, opts scanner.Options, workers int) <-chan result.FileResult {
	if workers < 1 {
		workers = 1
	}
	poolSize := workers - 1
	if poolSize < 1 {
		poolSize = 1
	}

	out := make(chan result.FileResult, workers*2)
	sem := semaphore.NewWeighted(int64(workers))

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < poolSize; i++ {
			g.Go(func() error {
				for {
					select {
					case f, ok := <-files:
						if !ok {
							return nil
						}
						if f.Error != nil {
							continue
						}
						scanOne(gctx, sem, f, re, opts, out)
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			})
		}
		// Scoped execution: this dispatch goroutine returns, closing out,
		// only after every worker has returned.
		_ = g.Wait()
	}()

	return out
}

func scanOne(ctx context.Context, sem *semaphore.Weighted, f walker.Result, re *regexp.Regexp, opts scanner.Options, out chan<- result.FileResult) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer sem.Release(1)

	mf, err := mmapfile.Open(f.Path)
	if err != nil {
		// Permission error, unsupported file type, or a file that vanished
		// between the walk and the scan: drop the task silently, per
		// spec.md 4.6 step 2.
		return
	}
	res := scanner.Scan(re, opts, f.Display, mf.Bytes())
	mf.Close()

	select {
	case out <- res:
	case <-ctx.Done():
	}
}
