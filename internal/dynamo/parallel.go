package dynamo

import "golang.org/x/sync/errgroup"

// ParallelFor executes fn over [0, n) split into at most workers chunks.
// Small ranges run inline. The first error returned by any chunk is returned
// after all chunks finish.
func ParallelFor(n, minChunk, workers int, fn func(start, end int) error) error {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		return fn(0, n)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			return fn(s, e)
		})
	}

	return g.Wait()
}
