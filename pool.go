package threadpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type (
	// Task is the object form of a unit of work.
	Task interface {
		Run() *Any
	}

	// Statistics is a point-in-time view of a pool, for diagnostics only.
	Statistics struct {
		Mode           Mode  `json:"mode"`
		QueueCapacity  int   `json:"queue_capacity"`
		MinWorker      int   `json:"min_worker"`
		MaxWorker      int   `json:"max_worker"`
		CurrWorker     int32 `json:"curr_worker"`
		IdleWorker     int32 `json:"idle_worker"`
		PendingTasks   int32 `json:"pending_tasks"`
		SubmittedTasks int64 `json:"submitted_tasks"`
		RejectedTasks  int64 `json:"rejected_tasks"`
		FinishedTasks  int64 `json:"finished_tasks"`
		PanickedTasks  int64 `json:"panicked_tasks"`
		DroppedTasks   int64 `json:"dropped_tasks"`
	}

	// Pool runs submitted tasks on a bounded set of worker goroutines.
	Pool struct {
		name    string
		conf    Config
		log     Logger
		metrics *Metrics
		limiter *rate.Limiter

		// mu guards the queue, the worker map, conf and every counter
		// a sizing decision depends on.
		mu       sync.Locker
		notFull  *sync.Cond
		notEmpty *sync.Cond
		exited   *sync.Cond

		queue        taskQueue
		workers      map[int]*worker
		lastWorkerID int
		floor        int

		state    poolState
		stopOnce sync.Once
		ctx      context.Context
		cancel   context.CancelFunc

		stats *Statistics
	}
)

// New creates a pool. The pool does not run anything until Start.
// A nil logger discards all logs.
func New(conf Config, logger Logger, opts ...Option) (*Pool, error) {
	if err := validateConfig(&conf); err != nil {
		return nil, errors.Wrap(err, "new thread pool")
	}
	if logger == nil {
		logger = &discardLogger{}
	}

	p := &Pool{
		name:    getRandomName(0),
		conf:    conf,
		log:     logger,
		mu:      &sync.Mutex{},
		workers: make(map[int]*worker),
		stats:   &Statistics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.notFull = sync.NewCond(p.mu)
	p.notEmpty = sync.NewCond(p.mu)
	p.exited = sync.NewCond(p.mu)
	p.ctx, p.cancel = context.WithCancel(context.Background())
	return p, nil
}

// NewDefault creates a fixed-mode pool with the default config.
func NewDefault() (*Pool, error) {
	return New(Config{}, nil)
}

func (p *Pool) Name() string {
	return p.name
}

// SetMode sets the sizing policy. Ignored once the pool has started.
func (p *Pool) SetMode(mode Mode) {
	p.configure("mode", func() {
		if mode != ModeFixed && mode != ModeCached {
			p.log.Debugf("tpool [%s]: invalid mode %d ignored", p.name, int(mode))
			return
		}
		p.conf.Mode = mode
	})
}

// SetQueueCapacity sets how many tasks may wait in the queue.
// Ignored once the pool has started.
func (p *Pool) SetQueueCapacity(n int) {
	p.configure("queue capacity", func() {
		if n > 0 {
			p.conf.QueueCapacity = n
		}
	})
}

// SetMaxWorkers sets the worker ceiling of a cached pool. Ignored in fixed
// mode, so call SetMode first, and ignored once the pool has started.
func (p *Pool) SetMaxWorkers(n int) {
	p.configure("max workers", func() {
		if p.conf.Mode != ModeCached {
			p.log.Debugf("tpool [%s]: max workers only applies to cached mode, ignored", p.name)
			return
		}
		if n > 0 {
			p.conf.MaxWorkers = n
		}
	})
}

// SetIdleTimeout sets how long a cached worker may idle before retiring.
// Ignored once the pool has started.
func (p *Pool) SetIdleTimeout(d time.Duration) {
	p.configure("idle timeout", func() {
		if d > 0 {
			p.conf.IdleTimeout = d
		}
	})
}

// SetSubmitTimeout sets how long Submit waits for queue space before
// rejecting the task. Ignored once the pool has started.
func (p *Pool) SetSubmitTimeout(d time.Duration) {
	p.configure("submit timeout", func() {
		if d > 0 {
			p.conf.SubmitTimeout = d
		}
	})
}

func (p *Pool) configure(field string, apply func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.isCreated() {
		p.log.Debugf("tpool [%s]: %s can only be changed before start, ignored", p.name, field)
		return
	}
	apply()
}

// Start launches n workers. n <= 0 uses Config.InitWorkers, or
// runtime.GOMAXPROCS(0) when that is unset too. In cached mode n is also
// the floor the pool never shrinks below. Only the first call has effect.
func (p *Pool) Start(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.start() {
		p.log.Warnf("tpool [%s]: pool is %s, start ignored", p.name, p.state.String())
		return
	}
	if n <= 0 {
		n = p.conf.InitWorkers
	}
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p.floor = n
	if p.conf.MaxWorkers < n {
		p.conf.MaxWorkers = n
	}

	p.log.Infof("tpool [%s]: starting %d workers in %s mode", p.name, n, p.conf.Mode)
	for i := 0; i < n; i++ {
		p.spawnLocked()
	}
	p.log.Infof("tpool [%s]: thread pool started", p.name)
}

// Submit queues fn on p and returns its future. If the queue stays full
// for the submit timeout, or p is closed, the returned future is rejected:
// Valid is false and Get returns the zero T.
func Submit[T any](p *Pool, fn func() T) *Future[T] {
	if fn == nil {
		return rejectedFuture[T](ErrNilTask)
	}

	f := newFuture[T]()
	t := task{
		run: func() error {
			v, err := protect(fn)
			f.resolve(v, err)
			return err
		},
		cancel: func(err error) {
			var zero T
			f.resolve(zero, err)
		},
	}
	if err := p.enqueue(t); err != nil {
		return rejectedFuture[T](err)
	}
	return f
}

// SubmitTask queues t on p. See Submit for rejection.
func (p *Pool) SubmitTask(t Task) *Result {
	if t == nil {
		return &Result{f: rejectedFuture[*Any](ErrNilTask)}
	}
	return &Result{f: Submit(p, t.Run)}
}

// protect runs fn and turns a panic into ErrTaskPanicked with the stack.
func protect[T any](fn func() T) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = errors.Wrapf(ErrTaskPanicked, "%v\nstack trace:\n%s", r, buf[:n])
		}
	}()
	return fn(), nil
}

func (p *Pool) enqueue(t task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.isClosed() {
		return p.rejectLocked(ErrPoolClosed, "closed")
	}

	deadline := time.Now().Add(p.conf.SubmitTimeout)
	if !waitUntil(p.notFull, deadline, p.hasRoomOrClosed) {
		p.log.Warnf("tpool [%s]: task queue is full, submit task failed", p.name)
		err := errors.Wrapf(ErrSubmitTimeout, "capacity %d, waited %v", p.conf.QueueCapacity, p.conf.SubmitTimeout)
		return p.rejectLocked(err, "queue_full")
	}
	if p.state.isClosed() {
		return p.rejectLocked(ErrPoolClosed, "closed")
	}

	p.queue.push(t)
	pending := atomic.AddInt32(&p.stats.PendingTasks, 1)
	atomic.AddInt64(&p.stats.SubmittedTasks, 1)
	p.notEmpty.Signal()
	p.metrics.recordSubmitted(p.name, int(pending))
	p.log.Debugf("tpool [%s]: task enqueued, %d pending", p.name, pending)

	if p.conf.Mode == ModeCached && p.state.isRunning() &&
		shouldGrow(p.queue.len(), p.idleLocked(), p.currentLocked(), p.conf.MaxWorkers) {
		p.log.Infof("tpool [%s]: expand worker pool: %d -> %d", p.name, p.currentLocked(), p.currentLocked()+1)
		p.spawnLocked()
	}
	return nil
}

func (p *Pool) rejectLocked(err error, reason string) error {
	atomic.AddInt64(&p.stats.RejectedTasks, 1)
	p.metrics.recordRejected(p.name, reason)
	return err
}

func (p *Pool) hasRoomOrClosed() bool {
	return p.queue.len() < p.conf.QueueCapacity || p.state.isClosed()
}

func (p *Pool) hasWorkOrClosed() bool {
	return p.queue.len() > 0 || p.state.isClosed()
}

func (p *Pool) currentLocked() int {
	return int(atomic.LoadInt32(&p.stats.CurrWorker))
}

func (p *Pool) idleLocked() int {
	return int(atomic.LoadInt32(&p.stats.IdleWorker))
}

// spawnLocked registers and starts one idle worker.
func (p *Pool) spawnLocked() {
	p.lastWorkerID++
	w := newWorker(p.name, p.lastWorkerID, p.runWorker)
	p.workers[w.id] = w

	curr := atomic.AddInt32(&p.stats.CurrWorker, 1)
	idle := atomic.AddInt32(&p.stats.IdleWorker, 1)
	p.metrics.setWorkers(p.name, int(curr), int(idle))
	p.log.Debugf("tpool [%s]: worker %s started", p.name, w.name)
	w.start()
}

// retireLocked deregisters an idle worker and wakes Shutdown.
func (p *Pool) retireLocked(w *worker, reason string) {
	delete(p.workers, w.id)

	curr := atomic.AddInt32(&p.stats.CurrWorker, -1)
	idle := atomic.AddInt32(&p.stats.IdleWorker, -1)
	p.metrics.setWorkers(p.name, int(curr), int(idle))
	p.log.Debugf("tpool [%s]: worker %s exited: %s", p.name, w.name, reason)
	p.exited.Broadcast()
}

func (p *Pool) runWorker(w *worker) {
	lastActive := time.Now()
	for {
		t, ok := p.next(w, lastActive)
		if !ok {
			return
		}
		p.execute(w, t)

		p.mu.Lock()
		idle := atomic.AddInt32(&p.stats.IdleWorker, 1)
		p.metrics.setWorkers(p.name, p.currentLocked(), int(idle))
		p.mu.Unlock()
		lastActive = time.Now()
	}
}

// next blocks until a task is available for w and dequeues it.
// It reports false once w has retired.
func (p *Pool) next(w *worker, lastActive time.Time) (task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.len() == 0 {
		if p.state.isClosed() {
			p.retireLocked(w, "pool closed")
			return task{}, false
		}
		if p.conf.Mode == ModeFixed {
			p.notEmpty.Wait()
			continue
		}

		deadline := time.Now().Add(p.conf.IdleCheckInterval)
		if waitUntil(p.notEmpty, deadline, p.hasWorkOrClosed) {
			continue
		}
		if shouldRetire(time.Since(lastActive), p.conf.IdleTimeout, p.currentLocked(), p.floor) {
			p.log.Infof("tpool [%s]: shrink worker pool: %d -> %d", p.name, p.currentLocked(), p.currentLocked()-1)
			p.retireLocked(w, "idle timeout")
			return task{}, false
		}
	}

	atomic.AddInt32(&p.stats.IdleWorker, -1)
	t := p.queue.pop()
	pending := atomic.AddInt32(&p.stats.PendingTasks, -1)
	if p.queue.len() > 0 {
		p.notEmpty.Signal()
	}
	p.notFull.Signal()
	p.metrics.recordDequeued(p.name, int(pending))
	return t, true
}

// execute runs t outside the lock. t.run recovers panics of the task,
// so the counters are always updated.
func (p *Pool) execute(w *worker, t task) {
	if p.limiter != nil {
		// Wait only fails once Shutdown cancelled p.ctx.
		if err := p.limiter.Wait(p.ctx); err != nil {
			p.log.Debugf("tpool [%s]: %s: rate limiter: %v, task dropped", p.name, w.name, err)
			atomic.AddInt64(&p.stats.DroppedTasks, 1)
			p.metrics.recordDropped(p.name, 1)
			t.cancel(ErrPoolClosed)
			return
		}
	}

	start := time.Now()
	err := t.run()
	elapsed := time.Since(start)

	atomic.AddInt64(&p.stats.FinishedTasks, 1)
	if err != nil {
		atomic.AddInt64(&p.stats.PanickedTasks, 1)
		p.log.Errorf("tpool [%s]: %s: %v", p.name, w.name, err)
	}
	p.metrics.recordCompleted(p.name, elapsed, err != nil)
}

// Statistics returns a snapshot of the pool counters.
func (p *Pool) Statistics() *Statistics {
	p.mu.Lock()
	mode, capacity, floor, ceiling := p.conf.Mode, p.conf.QueueCapacity, p.floor, p.conf.MaxWorkers
	p.mu.Unlock()
	if mode == ModeFixed {
		ceiling = floor
	}

	return &Statistics{
		Mode:           mode,
		QueueCapacity:  capacity,
		MinWorker:      floor,
		MaxWorker:      ceiling,
		CurrWorker:     atomic.LoadInt32(&p.stats.CurrWorker),
		IdleWorker:     atomic.LoadInt32(&p.stats.IdleWorker),
		PendingTasks:   atomic.LoadInt32(&p.stats.PendingTasks),
		SubmittedTasks: atomic.LoadInt64(&p.stats.SubmittedTasks),
		RejectedTasks:  atomic.LoadInt64(&p.stats.RejectedTasks),
		FinishedTasks:  atomic.LoadInt64(&p.stats.FinishedTasks),
		PanickedTasks:  atomic.LoadInt64(&p.stats.PanickedTasks),
		DroppedTasks:   atomic.LoadInt64(&p.stats.DroppedTasks),
	}
}

// Close shuts the pool down and blocks until every worker has exited.
func (p *Pool) Close() error {
	return p.Shutdown(context.Background())
}

// Shutdown stops the pool: no new task is accepted or started, tasks still
// queued are dropped and their futures fail with ErrPoolClosed, running
// tasks finish. It blocks until the worker map is empty or ctx is done,
// in which case it returns ErrShutdownTimeoutExceeded and the remaining
// workers exit in the background once their task returns.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() {
		p.log.Infof("tpool [%s]: stopping thread pool", p.name)

		p.mu.Lock()
		p.state.close()
		dropped := p.queue.drain()
		atomic.AddInt32(&p.stats.PendingTasks, -int32(len(dropped)))
		atomic.AddInt64(&p.stats.DroppedTasks, int64(len(dropped)))
		// Workers blocked without a timeout would never see the flag.
		p.notEmpty.Broadcast()
		p.notFull.Broadcast()
		p.mu.Unlock()

		p.cancel()
		p.metrics.recordDropped(p.name, len(dropped))
		if len(dropped) > 0 {
			p.log.Infof("tpool [%s]: dropped %d queued tasks", p.name, len(dropped))
		}
		for _, t := range dropped {
			t.cancel(ErrPoolClosed)
		}
	})

	start := time.Now()
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.exited.Broadcast()
		p.mu.Unlock()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.workers) > 0 {
		if ctx.Err() != nil {
			p.log.Warnf("tpool [%s]: shutdown timeout exceeded with %d workers running", p.name, len(p.workers))
			return errors.Wrapf(ErrShutdownTimeoutExceeded, "%d workers still running", len(p.workers))
		}
		p.exited.Wait()
	}
	p.log.Infof("tpool [%s]: all workers stopped in %v", p.name, time.Since(start))
	return nil
}

func (s Statistics) String() string {
	return fmt.Sprintf("mode=%s workers=%d/%d..%d idle=%d pending=%d/%d submitted=%d rejected=%d finished=%d panicked=%d dropped=%d",
		s.Mode, s.CurrWorker, s.MinWorker, s.MaxWorker, s.IdleWorker, s.PendingTasks, s.QueueCapacity,
		s.SubmittedTasks, s.RejectedTasks, s.FinishedTasks, s.PanickedTasks, s.DroppedTasks)
}
