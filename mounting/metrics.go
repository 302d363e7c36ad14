package mounting

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors updated by a Coordinator. A nil
// *Metrics is valid, and records nothing.
type Metrics struct {
	commits      prometheus.Counter
	transactions prometheus.Counter
	mountErrors  prometheus.Counter
	mutations    *prometheus.CounterVec
	diffDuration prometheus.Histogram
}

// NewMetrics initializes and registers the collectors with reg, which
// defaults to prometheus.DefaultRegisterer, if nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	const namespace, subsystem = `shadowtree`, `mounting`

	x := &Metrics{
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      `commits_total`,
			Help:      `Trees committed to a coordinator.`,
		}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      `transactions_total`,
			Help:      `Mutation lists successfully mounted.`,
		}),
		mountErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      `mount_errors_total`,
			Help:      `Mutation lists the mounter failed to apply.`,
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      `mutations_total`,
			Help:      `Mutations mounted, by type.`,
		}, []string{`type`}),
		diffDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      `diff_duration_seconds`,
			Help:      `Time taken to calculate each mutation list.`,
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}

	for _, c := range [...]prometheus.Collector{
		x.commits,
		x.transactions,
		x.mountErrors,
		x.mutations,
		x.diffDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf(`mounting: register metrics: %w`, err)
		}
	}

	return x, nil
}

func (x *Metrics) observeCommit() {
	if x != nil {
		x.commits.Inc()
	}
}

func (x *Metrics) observeDiff(d time.Duration) {
	if x != nil {
		x.diffDuration.Observe(d.Seconds())
	}
}

func (x *Metrics) observeMount(mutations MutationList, err error) {
	if x == nil {
		return
	}
	if err != nil {
		x.mountErrors.Inc()
		return
	}
	x.transactions.Inc()
	for _, t := range [...]MutationType{Create, Delete, Insert, Remove, Update} {
		if n := mutations.Count(t); n != 0 {
			x.mutations.WithLabelValues(t.String()).Add(float64(n))
		}
	}
}
