package threadpool

import "github.com/pkg/errors"

var (
	// Pool
	ErrPoolClosed              = errors.New("thread pool closed")
	ErrSubmitTimeout           = errors.New("task queue is full, submit timeout exceeded")
	ErrShutdownTimeoutExceeded = errors.New("shutdown timeout exceeded")
	ErrNilTask                 = errors.New("task must not be nil")
	ErrTaskPanicked            = errors.New("task panicked")

	// Config
	ErrInvalidConfig = errors.New("invalid config")
	ErrInvalidMode   = errors.New("invalid pool mode: must be fixed or cached")

	// Any
	ErrTypeMismatch = errors.New("type mismatch")
	ErrEmptyValue   = errors.New("value is empty")
)
