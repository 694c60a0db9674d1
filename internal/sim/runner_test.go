package sim

import (
	"sync"
	"testing"
)

func TestRunnerCoversAllRows(t *testing.T) {
	r := NewRunner(4)
	const h = 37
	var mu sync.Mutex
	seen := make([]int, h)

	r.Run(h, func(y0, y1 int) {
		mu.Lock()
		defer mu.Unlock()
		for y := y0; y < y1; y++ {
			seen[y]++
		}
	})

	for y, n := range seen {
		if n != 1 {
			t.Fatalf("row %d visited %d times", y, n)
		}
	}
}

func TestRunnerDefaultsWorkerCount(t *testing.T) {
	if NewRunner(0).Workers() < 1 {
		t.Error("worker count must be at least 1")
	}
	if NewRunner(-3).Workers() < 1 {
		t.Error("negative worker count must fall back to a positive default")
	}
}

func TestRunnerZeroRows(t *testing.T) {
	called := false
	NewRunner(2).Run(0, func(y0, y1 int) { called = true })
	if called {
		t.Error("kernel should not run for an empty range")
	}
}
