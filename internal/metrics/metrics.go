package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observer refreshes gauges that cannot be updated inline,
// such as the queue depth of the job repository.
// Observers are invoked on every scrape of the collector's registry.
type Observer interface {
	Observe(ctx context.Context, metrics *Collector)
}

type Collector struct {
	mutex     sync.Mutex
	registry  *prometheus.Registry
	observers []Observer

	RecoveryRounds          prometheus.Counter
	RecoveryRoundDurations  prometheus.Histogram
	RecoveryRoundCandidates prometheus.Histogram
	RecoveryPasses          prometheus.Counter
	RecoveryDurations       prometheus.Histogram
	RecoverySurvivors       prometheus.Histogram
	RecoveryOutcomes        *prometheus.CounterVec
	RecoveryErrors          prometheus.Counter

	SolverWorkersBusy      prometheus.Gauge
	SolverWorkersAvailable prometheus.Gauge
	SolverJobs             *prometheus.CounterVec
	SolverErrors           prometheus.Counter

	JobQueueProduced prometheus.Counter
	JobQueueConsumed prometheus.Counter
	JobQueueRequeued prometheus.Counter
	JobQueueErrors   prometheus.Counter

	JobRepositorySize prometheus.Gauge
	JobQueueSize      prometheus.Gauge

	CleanerRemovals *prometheus.CounterVec
	CleanerErrors   *prometheus.CounterVec
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewGoCollector())

	c := &Collector{
		registry: registry,

		RecoveryRounds: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "recovery_rounds_total",
			Help: "The total number of extension rounds performed",
		}),
		RecoveryRoundDurations: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name: "recovery_round_duration_seconds",
			Help: "Duration of extension rounds",
		}),
		RecoveryRoundCandidates: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "recovery_round_candidates",
			Help:    "The number of candidates left in the table after an extension round",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		RecoveryPasses: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "recovery_passes_total",
			Help: "The total number of completed search passes",
		}),
		RecoveryDurations: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name: "recovery_duration_seconds",
			Help: "Duration of state recovery requests",
		}),
		RecoverySurvivors: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "recovery_survivors",
			Help:    "The number of candidates surviving reconciliation",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		RecoveryOutcomes: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "recovery_outcomes_total",
			Help: "The total number of state recovery outcomes",
		}, []string{"outcome"}),
		RecoveryErrors: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "recovery_errors_total",
			Help: "The total number of aborted state recovery requests",
		}),
		SolverWorkersBusy: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "solver_busy_workers",
			Help: "The total number of busy solver workers",
		}),
		SolverWorkersAvailable: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "solver_available_workers",
			Help: "The total number of available solver workers",
		}),
		SolverJobs: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "solver_jobs_total",
			Help: "The total number of jobs processed by solver",
		}, []string{"status"}),
		SolverErrors: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "solver_errors_total",
			Help: "The total number of unexpected errors occurred while solving jobs",
		}),
		JobQueueProduced: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "job_queue_produced_total",
			Help: "The total number of jobs put in job queue",
		}),
		JobQueueConsumed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "job_queue_consumed_total",
			Help: "The total number of jobs consumed from job queue",
		}),
		JobQueueRequeued: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "job_queue_requeued_total",
			Help: "The total number of consumed jobs returned to job queue unstarted",
		}),
		JobQueueErrors: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "job_queue_errors_total",
			Help: "The total number of errors occurred while consuming job queue",
		}),
		JobRepositorySize: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "repo_jobs_size",
			Help: "The number of jobs stored in the repository",
		}),
		JobQueueSize: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "repo_jobs_pending",
			Help: "The number of jobs waiting in the queue",
		}),
		CleanerRemovals: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_removals_total",
			Help: "The total number of outdated items removed by cleaner",
		}, []string{"kind"}),
		CleanerErrors: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "cleaner_errors_total",
			Help: "The total number of errors occurred during cleaner runs",
		}, []string{"kind"}),
	}
	return c
}

func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) AddObserver(observer Observer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.observers = append(c.observers, observer)
}

func (c *Collector) Observe(ctx context.Context) {
	c.mutex.Lock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mutex.Unlock()

	for _, observer := range observers {
		go observer.Observe(ctx, c)
	}
}
