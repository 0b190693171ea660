package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestForEachCoversEveryIndexOnce(t *testing.T) {
	const n = 1000
	counts := make([]int32, n)
	ForEach(8, n, func(i int) {
		atomic.AddInt32(&counts[i], 1)
	})
	for i, c := range counts {
		if c != 1 {
			t.Fatalf("index %d processed %d times", i, c)
		}
	}
}

func TestForEachSerialFallback(t *testing.T) {
	var order []int
	ForEach(1, 5, func(i int) { order = append(order, i) })
	for i, got := range order {
		if got != i {
			t.Fatalf("serial order = %v", order)
		}
	}

	ForEach(4, 0, func(i int) { t.Error("fn called for n=0") })
}

func TestForEachWorkerDefaults(t *testing.T) {
	// workers <= 0 and workers > n must both still cover everything.
	var total int64
	ForEach(-1, 100, func(i int) { atomic.AddInt64(&total, int64(i)) })
	if total != 4950 {
		t.Errorf("sum = %d, want 4950", total)
	}

	total = 0
	ForEach(64, 3, func(i int) { atomic.AddInt64(&total, 1) })
	if total != 3 {
		t.Errorf("calls = %d, want 3", total)
	}
}

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	var done int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		ok := pool.Submit(func() {
			atomic.AddInt32(&done, 1)
			wg.Done()
		})
		if !ok {
			t.Fatal("Submit returned false on an open pool")
		}
	}
	wg.Wait()
	pool.Close()

	if done != 50 {
		t.Errorf("tasks run = %d, want 50", done)
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	if pool.Submit(func() {}) {
		t.Error("Submit accepted a task after Close")
	}
	// Closing twice is a no-op.
	pool.Close()
}

func TestWorkerPoolDefaultSize(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()
	if pool.Workers() != runtime.GOMAXPROCS(0) {
		t.Errorf("Workers = %d, want GOMAXPROCS", pool.Workers())
	}
}
