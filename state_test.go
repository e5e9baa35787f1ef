package threadpool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPoolState_Transitions(t *testing.T) {
	s := &poolState{}
	if !s.isCreated() {
		t.Fatalf("1. Expected initial state created. Got %s", s)
	}
	if !s.start() {
		t.Fatalf("2. Expected created -> running")
	}
	if s.start() {
		t.Fatalf("3. Expected second start to fail")
	}
	if !s.isRunning() {
		t.Fatalf("4. Expected running. Got %s", s)
	}
	if !s.close() {
		t.Fatalf("5. Expected running -> closed")
	}
	if s.close() || s.start() {
		t.Fatalf("6. Expected closed to be terminal")
	}
	if !s.isClosed() {
		t.Fatalf("7. Expected closed. Got %s", s)
	}
}

func TestPoolState_CloseBeforeStart(t *testing.T) {
	s := &poolState{}
	if !s.close() {
		t.Fatalf("1. Expected created -> closed")
	}
	if s.start() {
		t.Fatalf("2. Expected start after close to fail")
	}
}

func TestPoolState_ConcurrentClose(t *testing.T) {
	s := &poolState{}
	s.start()

	var (
		wg     sync.WaitGroup
		closed int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.close() {
				atomic.AddInt32(&closed, 1)
			}
		}()
	}
	wg.Wait()

	if closed != 1 {
		t.Fatalf("1. Expected exactly one successful close. Got %d", closed)
	}
}
