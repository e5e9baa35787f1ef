// Package threadpool is a worker pool with a bounded FIFO task queue and
// typed per-task results.
//
// A pool runs in one of two modes. In fixed mode the worker count given to
// Start never changes. In cached mode the pool spawns a worker whenever
// queued tasks outnumber idle workers (up to MaxWorkers), and workers idle
// for longer than IdleTimeout retire until the pool is back to its initial
// size.
//
// Configure before start, then submit:
//
//	pool, _ := threadpool.New(threadpool.Config{Mode: threadpool.ModeCached, MaxWorkers: 8}, logrus.New())
//	pool.Start(2)
//	defer pool.Close()
//
//	f := threadpool.Submit(pool, func() int { return 1 + 2 })
//	sum := f.Get() // blocks until a worker has run the task
//
// Submit waits at most SubmitTimeout (one second by default) for queue
// space. After that the task is rejected: the future is not Valid and Get
// returns the zero value immediately.
//
// Tasks implementing Task return an *Any, which is read back with As or
// Cast; asking for a type other than the stored one fails with
// ErrTypeMismatch.
package threadpool
