package threadpool

import "sync/atomic"

const (
	stateCreated int32 = iota
	stateRunning
	stateClosed
)

// poolState is the lifecycle flag of a pool.
// It only moves forward: created -> running -> closed.
type poolState struct {
	v int32
}

// start moves created to running. It reports false if the pool was
// already started or closed.
func (s *poolState) start() bool {
	return atomic.CompareAndSwapInt32(&s.v, stateCreated, stateRunning)
}

// close moves any state to closed. It reports false if already closed.
func (s *poolState) close() bool {
	for {
		cur := atomic.LoadInt32(&s.v)
		if cur == stateClosed {
			return false
		}
		if atomic.CompareAndSwapInt32(&s.v, cur, stateClosed) {
			return true
		}
	}
}

func (s *poolState) isCreated() bool {
	return atomic.LoadInt32(&s.v) == stateCreated
}

func (s *poolState) isRunning() bool {
	return atomic.LoadInt32(&s.v) == stateRunning
}

func (s *poolState) isClosed() bool {
	return atomic.LoadInt32(&s.v) == stateClosed
}

func (s *poolState) String() string {
	switch atomic.LoadInt32(&s.v) {
	case stateCreated:
		return "created"
	case stateRunning:
		return "running"
	default:
		return "closed"
	}
}
