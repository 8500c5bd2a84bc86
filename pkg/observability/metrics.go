package observability

import (
	"context"

	"github.com/aretw0/markovchain/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of the runs counter.
const (
	OutcomeCompleted = "completed"
	OutcomeAbsorbed  = "absorbed"
	OutcomeFailed    = "failed"
)

// Metrics holds the Prometheus collectors fed by a chain's hooks.
// One Metrics can observe several chains, including parallel replicates.
type Metrics struct {
	Runs     *prometheus.CounterVec
	Firings  *prometheus.CounterVec
	Moved    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	SimTime  prometheus.Gauge
}

// NewMetrics creates the collectors under namespace and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of finished runs by solver and outcome",
			},
			[]string{"solver", "outcome"},
		),
		Firings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transition_firings_total",
				Help:      "Total number of firing calls per transition",
			},
			[]string{"transition"},
		),
		Moved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transition_amount_total",
				Help:      "Total amount moved per transition",
			},
			[]string{"transition"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall-clock duration of runs",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"solver"},
		),
		SimTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_final_time",
				Help:      "Simulated time reached by the last finished run",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Runs, m.Firings, m.Moved, m.Duration, m.SimTime} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFire: func(_ context.Context, e *domain.FireEvent) {
			m.Firings.WithLabelValues(e.TransitionID).Inc()
			m.Moved.WithLabelValues(e.TransitionID).Add(e.Amount)
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			outcome := OutcomeCompleted
			switch {
			case e.Err != nil:
				outcome = OutcomeFailed
			case e.Absorbed:
				outcome = OutcomeAbsorbed
			}
			solver := e.Solver.String()
			m.Runs.WithLabelValues(solver, outcome).Inc()
			m.Duration.WithLabelValues(solver).Observe(e.Elapsed.Seconds())
			if e.Err == nil {
				m.SimTime.Set(e.Time)
			}
		},
	}
}
