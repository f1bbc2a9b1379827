package dynamo

import (
	"runtime"
	"sync"
)

// DefaultWorkers is the worker count used when a caller passes zero.
func DefaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	return n
}

// ParallelFor executes fn over [0, n) split into contiguous chunks.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if n <= 1 || workers <= 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
