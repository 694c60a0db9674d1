package sim

import (
	"runtime"
	"sync"
)

// Runner executes a row-sliced kernel across a fixed set of workers and
// joins them before returning, so passes issued through it stay strictly
// ordered. Every texel written by a kernel depends only on the source
// plane, which keeps the result independent of scheduling.
type Runner struct {
	workers int
}

// NewRunner returns a runner with the given worker count; counts below
// one fall back to GOMAXPROCS.
func NewRunner(workers int) *Runner {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{workers: workers}
}

// Workers reports the configured worker count.
func (r *Runner) Workers() int { return r.workers }

// Run splits rows [0, h) into contiguous batches and invokes the kernel
// once per batch, blocking until all batches complete.
func (r *Runner) Run(h int, kernel func(y0, y1 int)) {
	if h <= 0 {
		return
	}
	n := r.workers
	if n > h {
		n = h
	}
	if n == 1 {
		kernel(0, h)
		return
	}
	var wg sync.WaitGroup
	chunk := (h + n - 1) / n
	for y0 := 0; y0 < h; y0 += chunk {
		y1 := y0 + chunk
		if y1 > h {
			y1 = h
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			kernel(a, b)
		}(y0, y1)
	}
	wg.Wait()
}
