package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog sync.
// Tracks run outcomes, per-package results, entity writes and run duration.
type Metrics struct {
	Runs         *prometheus.CounterVec
	Packages     *prometheus.CounterVec
	EntityWrites *prometheus.CounterVec
	RunDuration  prometheus.Histogram
}

// New creates the catalog metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "esim_catalog_sync_runs_total",
			Help: "Total number of catalog sync runs by final status",
		}, []string{"status"}),
		Packages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "esim_catalog_packages_total",
			Help: "Total number of catalog packages processed by result (succeeded, failed)",
		}, []string{"result"}),
		EntityWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "esim_catalog_entity_writes_total",
			Help: "Total number of entity upsert outcomes by entity and outcome",
		}, []string{"entity", "outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "esim_catalog_sync_duration_seconds",
			Help:    "Duration of catalog sync runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
	}
}

// ObserveRun records a finished run.
// Call with time.Now() at the start of the run.
func (m *Metrics) ObserveRun(status string, start time.Time) {
	m.Runs.WithLabelValues(status).Inc()
	m.RunDuration.Observe(time.Since(start).Seconds())
}

// IncrementPackage records one processed package.
func (m *Metrics) IncrementPackage(result string) {
	m.Packages.WithLabelValues(result).Inc()
}

// AddEntityOutcomes records n upsert outcomes for an entity.
func (m *Metrics) AddEntityOutcomes(entity, outcome string, n int) {
	if n <= 0 {
		return
	}
	m.EntityWrites.WithLabelValues(entity, outcome).Add(float64(n))
}
