package threadpool

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
)

const (
	defaultQueueCapacity     = 1024
	defaultMaxWorkers        = 1024
	defaultIdleTimeout       = 60 * time.Second
	defaultSubmitTimeout     = 1 * time.Second
	defaultIdleCheckInterval = 1 * time.Second
)

// Config is the sizing and timing policy of a pool. Zero fields take the
// defaults; it can also be changed with the Set* methods until Start.
type Config struct {
	Mode          Mode `json:"mode" yaml:"mode" mapstructure:"mode"`
	InitWorkers   int  `json:"init_workers" yaml:"init_workers" mapstructure:"init_workers"`
	QueueCapacity int  `json:"queue_capacity" yaml:"queue_capacity" mapstructure:"queue_capacity"`
	MaxWorkers    int  `json:"max_workers" yaml:"max_workers" mapstructure:"max_workers"`

	IdleTimeout       time.Duration `json:"idle_timeout" yaml:"idle_timeout" mapstructure:"idle_timeout"`
	SubmitTimeout     time.Duration `json:"submit_timeout" yaml:"submit_timeout" mapstructure:"submit_timeout"`
	IdleCheckInterval time.Duration `json:"idle_check_interval" yaml:"idle_check_interval" mapstructure:"idle_check_interval"`
}

// DefaultConfig returns a fixed-mode config with every default filled in.
func DefaultConfig() Config {
	conf := Config{}
	_ = validateConfig(&conf)
	return conf
}

func validateConfig(conf *Config) error {
	if conf.Mode != ModeFixed && conf.Mode != ModeCached {
		return errors.Wrapf(ErrInvalidMode, "got %d", int(conf.Mode))
	}
	if conf.InitWorkers < 0 || conf.QueueCapacity < 0 || conf.MaxWorkers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "worker and queue sizes must be >= 0")
	}
	if conf.IdleTimeout < 0 || conf.SubmitTimeout < 0 || conf.IdleCheckInterval < 0 {
		return errors.Wrapf(ErrInvalidConfig, "durations must be >= 0")
	}

	if conf.QueueCapacity == 0 {
		conf.QueueCapacity = defaultQueueCapacity
	}
	if conf.MaxWorkers == 0 {
		conf.MaxWorkers = defaultMaxWorkers
	}
	if conf.InitWorkers > conf.MaxWorkers {
		conf.MaxWorkers = conf.InitWorkers
	}
	if conf.IdleTimeout == 0 {
		conf.IdleTimeout = defaultIdleTimeout
	}
	if conf.SubmitTimeout == 0 {
		conf.SubmitTimeout = defaultSubmitTimeout
	}
	if conf.IdleCheckInterval == 0 {
		conf.IdleCheckInterval = defaultIdleCheckInterval
	}
	return nil
}

// Option configures the runtime collaborators of a pool.
type Option func(p *Pool)

// WithName overrides the generated pool name used in logs and metrics.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithMetrics reports pool activity to m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// WithRateLimit caps how many tasks per second the workers start,
// with the given burst. Waiting happens after dequeue, outside the lock.
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(p *Pool) {
		if tasksPerSecond > 0 && burst > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithDeadlockDetection guards the task queue with a go-deadlock mutex,
// which reports lock-order inversions and long lock waits.
func WithDeadlockDetection() Option {
	return func(p *Pool) {
		p.mu = &deadlock.Mutex{}
	}
}
