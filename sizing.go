package threadpool

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Mode is the sizing policy of a pool.
type Mode int

const (
	// ModeFixed keeps the worker count constant for the pool lifetime.
	ModeFixed Mode = iota
	// ModeCached grows the pool under load, up to MaxWorkers, and retires
	// workers idle for longer than IdleTimeout, down to the initial count.
	ModeCached
)

func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeCached:
		return "cached"
	default:
		return "unknown"
	}
}

// ParseMode accepts "fixed" or "cached" ("elastic" is an alias of cached).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return ModeFixed, nil
	case "cached", "elastic":
		return ModeCached, nil
	default:
		return ModeFixed, errors.Wrapf(ErrInvalidMode, "got %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeFixed && m != ModeCached {
		return nil, errors.Wrapf(ErrInvalidMode, "got %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// shouldGrow decides whether a cached pool spawns one more worker after an
// enqueue: only when queued tasks outnumber idle workers and the ceiling
// is not reached.
func shouldGrow(pending, idle, current, ceiling int) bool {
	return pending > idle && current < ceiling
}

// shouldRetire decides whether an idle cached worker exits.
// The pool never shrinks below its initial worker count.
func shouldRetire(idleFor, idleTimeout time.Duration, current, floor int) bool {
	return idleFor >= idleTimeout && current > floor
}
