package threadpool

import (
	"sync"
	"time"
)

// task is a queued unit of work. Its closures own the future of the task.
type task struct {
	// run executes the work, resolves the future and returns a panic
	// recovered from the work, if any.
	run func() error
	// cancel resolves the future with err without running the work.
	cancel func(err error)
}

// taskQueue is a FIFO of pending tasks.
// It is not safe for concurrent use; the pool guards it with its mutex.
type taskQueue struct {
	items []task
}

func (q *taskQueue) len() int {
	return len(q.items)
}

func (q *taskQueue) push(t task) {
	q.items = append(q.items, t)
}

// pop removes the head. The queue must not be empty.
func (q *taskQueue) pop() task {
	t := q.items[0]
	q.items[0] = task{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return t
}

// drain removes and returns every pending task in queue order.
func (q *taskQueue) drain() []task {
	items := q.items
	q.items = nil
	return items
}

// waitUntil waits on c until pred holds or the deadline passes.
// c.L must be held by the caller and is held again on return.
// It reports whether pred holds.
func waitUntil(c *sync.Cond, deadline time.Time, pred func() bool) bool {
	if pred() {
		return true
	}
	d := time.Until(deadline)
	if d <= 0 {
		return false
	}

	// sync.Cond has no timed wait: wake every waiter at the deadline
	// and let each one re-check its own predicate.
	timer := time.AfterFunc(d, func() {
		c.L.Lock()
		c.Broadcast()
		c.L.Unlock()
	})
	defer timer.Stop()

	for !pred() {
		if !time.Now().Before(deadline) {
			return false
		}
		c.Wait()
	}
	return true
}
