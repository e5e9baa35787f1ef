package threadpool

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestFuture_GetTwice(t *testing.T) {
	f := newFuture[int]()
	go func() {
		time.Sleep(20 * time.Millisecond)
		f.resolve(7, nil)
	}()

	if v := f.Get(); v != 7 {
		t.Fatalf("1. Expected 7. Got %d", v)
	}

	got := make(chan int, 1)
	go func() { got <- f.Get() }()
	select {
	case v := <-got:
		if v != 7 {
			t.Fatalf("2. Expected same value on second Get. Got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatalf("3. Expected second Get not to block")
	}
}

func TestFuture_ResolveOnce(t *testing.T) {
	f := newFuture[int]()

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			f.resolve(v, nil)
		}(i)
	}
	wg.Wait()

	first := f.Get()
	f.resolve(100, errors.New("late"))
	if f.Get() != first || f.Err() != nil {
		t.Fatalf("1. Expected later resolutions to be ignored. Got %d, %v", f.Get(), f.Err())
	}
}

func TestFuture_Rejected(t *testing.T) {
	f := rejectedFuture[string](ErrSubmitTimeout)
	if f.Valid() {
		t.Fatalf("1. Expected rejected future to be invalid")
	}
	if v := f.Get(); v != "" {
		t.Fatalf("2. Expected zero value. Got %q", v)
	}
	if f.Err() != ErrSubmitTimeout {
		t.Fatalf("3. Expected ErrSubmitTimeout. Got %v", f.Err())
	}
	select {
	case <-f.Done():
	default:
		t.Fatalf("4. Expected Done closed on a rejected future")
	}
}

func TestResult_As(t *testing.T) {
	f := newFuture[*Any]()
	r := &Result{f: f}
	f.resolve(NewAny(3.5), nil)

	if v, err := As[float64](r); err != nil || v != 3.5 {
		t.Fatalf("1. Expected 3.5. Got %v, %v", v, err)
	}
	if _, err := As[int](r); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("2. Expected ErrTypeMismatch. Got %v", err)
	}

	rejected := &Result{f: rejectedFuture[*Any](ErrPoolClosed)}
	if rejected.Get() == nil || !rejected.Get().IsEmpty() {
		t.Fatalf("3. Expected empty sentinel from a rejected result")
	}
	if _, err := As[float64](rejected); err != ErrPoolClosed {
		t.Fatalf("4. Expected ErrPoolClosed. Got %v", err)
	}
}
