package threadpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of one or more pools,
// labelled by pool name. A nil *Metrics is valid and records nothing.
type Metrics struct {
	TasksSubmitted *prometheus.CounterVec
	TasksRejected  *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksDropped   *prometheus.CounterVec
	TaskDuration   *prometheus.HistogramVec
	QueueSize      *prometheus.GaugeVec
	Workers        *prometheus.GaugeVec
	IdleWorkers    *prometheus.GaugeVec
}

// NewMetrics creates the collectors under namespace and registers them
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TasksSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted into the queue",
		}, []string{"pool_name"}),
		TasksRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_rejected_total",
			Help:      "Total number of tasks rejected at submission",
		}, []string{"pool_name", "reason"}),
		TasksCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks executed by workers",
		}, []string{"pool_name", "status"}),
		TasksDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_dropped_total",
			Help:      "Total number of queued tasks dropped on shutdown",
		}, []string{"pool_name"}),
		TaskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of task execution in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pool_name"}),
		QueueSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_size",
			Help:      "Current number of tasks in the queue",
		}, []string{"pool_name"}),
		Workers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Current number of workers in the pool",
		}, []string{"pool_name"}),
		IdleWorkers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "idle_workers",
			Help:      "Current number of workers waiting for a task",
		}, []string{"pool_name"}),
	}
}

func (m *Metrics) recordSubmitted(pool string, queueSize int) {
	if m == nil {
		return
	}
	m.TasksSubmitted.WithLabelValues(pool).Inc()
	m.QueueSize.WithLabelValues(pool).Set(float64(queueSize))
}

func (m *Metrics) recordRejected(pool, reason string) {
	if m == nil {
		return
	}
	m.TasksRejected.WithLabelValues(pool, reason).Inc()
}

func (m *Metrics) recordDequeued(pool string, queueSize int) {
	if m == nil {
		return
	}
	m.QueueSize.WithLabelValues(pool).Set(float64(queueSize))
}

func (m *Metrics) recordCompleted(pool string, d time.Duration, panicked bool) {
	if m == nil {
		return
	}
	status := "success"
	if panicked {
		status = "panicked"
	}
	m.TasksCompleted.WithLabelValues(pool, status).Inc()
	m.TaskDuration.WithLabelValues(pool).Observe(d.Seconds())
}

func (m *Metrics) recordDropped(pool string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.TasksDropped.WithLabelValues(pool).Add(float64(n))
	m.QueueSize.WithLabelValues(pool).Set(0)
}

func (m *Metrics) setWorkers(pool string, current, idle int) {
	if m == nil {
		return
	}
	m.Workers.WithLabelValues(pool).Set(float64(current))
	m.IdleWorkers.WithLabelValues(pool).Set(float64(idle))
}
