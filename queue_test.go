package threadpool

import (
	"sync"
	"testing"
	"time"
)

func TestTaskQueue_FIFO(t *testing.T) {
	var (
		q   taskQueue
		got []int
	)
	for i := 0; i < 5; i++ {
		i := i
		q.push(task{run: func() error { got = append(got, i); return nil }})
	}
	for q.len() > 0 {
		_ = q.pop().run()
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("1. Expected FIFO order. Got %v", got)
		}
	}

	q.push(task{})
	q.push(task{})
	if drained := q.drain(); len(drained) != 2 || q.len() != 0 {
		t.Fatalf("2. Expected drain to empty the queue. Got %d drained, %d left", len(drained), q.len())
	}
}

func TestWaitUntil(t *testing.T) {
	var (
		mu    sync.Mutex
		cond  = sync.NewCond(&mu)
		ready bool
	)

	mu.Lock()
	start := time.Now()
	ok := waitUntil(cond, time.Now().Add(50*time.Millisecond), func() bool { return ready })
	elapsed := time.Since(start)
	mu.Unlock()
	if ok {
		t.Fatalf("1. Expected timeout")
	}
	if elapsed < 50*time.Millisecond {
		t.Fatalf("2. Expected to wait until the deadline. Waited %v", elapsed)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		ready = true
		cond.Signal()
		mu.Unlock()
	}()
	mu.Lock()
	ok = waitUntil(cond, time.Now().Add(5*time.Second), func() bool { return ready })
	mu.Unlock()
	if !ok {
		t.Fatalf("3. Expected predicate to become true before the deadline")
	}

	mu.Lock()
	ok = waitUntil(cond, time.Now().Add(-time.Second), func() bool { return ready })
	mu.Unlock()
	if !ok {
		t.Fatalf("4. Expected a satisfied predicate to win over a past deadline")
	}
}
