package threadpool

import "fmt"

// worker is one goroutine of the pool, identified by a pool-scoped id.
type worker struct {
	id   int
	name string
	run  func(w *worker)
}

func newWorker(poolName string, id int, run func(w *worker)) *worker {
	return &worker{
		id:   id,
		name: fmt.Sprintf("%s-%d", poolName, id),
		run:  run,
	}
}

// start runs the worker function on a detached goroutine.
// The pool tracks the worker through its worker map instead of joining it.
func (w *worker) start() {
	go w.run(w)
}
