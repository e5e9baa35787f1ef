package threadpool

import "sync"

// closedChan is shared by every rejected future.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Future is the caller side of a submitted task.
// The worker resolves it exactly once; Get blocks until then.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
	valid bool
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{
		done:  make(chan struct{}),
		valid: true,
	}
}

// rejectedFuture is returned when the task never made it into the queue.
func rejectedFuture[T any](err error) *Future[T] {
	return &Future[T]{
		done: closedChan,
		err:  err,
	}
}

func (f *Future[T]) resolve(value T, err error) {
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
	})
}

// Valid reports whether the task was accepted by the pool.
func (f *Future[T]) Valid() bool {
	return f.valid
}

// Get blocks until the task result is available and returns it.
// A rejected future returns the zero value of T without blocking.
// Calling Get again returns the same value.
func (f *Future[T]) Get() T {
	if !f.valid {
		var zero T
		return zero
	}
	<-f.done
	return f.value
}

// Err blocks like Get and returns why no value was produced:
// the rejection reason, ErrPoolClosed for a task dropped on shutdown,
// or ErrTaskPanicked. It is nil for a normally completed task.
func (f *Future[T]) Err() error {
	if !f.valid {
		return f.err
	}
	<-f.done
	return f.err
}

// Done is closed once the future is resolved or rejected.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result is the future of a Task submitted with SubmitTask.
type Result struct {
	f *Future[*Any]
}

// Valid reports whether the task was accepted by the pool.
func (r *Result) Valid() bool {
	return r.f.Valid()
}

// Get blocks until the task has run and returns its value.
// It never returns nil; a rejected or failed task yields an empty Any.
func (r *Result) Get() *Any {
	if v := r.f.Get(); v != nil {
		return v
	}
	return &Any{}
}

// Err is Future.Err for the task.
func (r *Result) Err() error {
	return r.f.Err()
}

// As waits for r and casts its value to T.
func As[T any](r *Result) (T, error) {
	if err := r.Err(); err != nil {
		var zero T
		return zero, err
	}
	return Cast[T](r.Get())
}
