// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics for the terminal core.
type Metrics struct {
	CommandsProcessed *prometheus.CounterVec
	FaultsInjected    prometheus.Counter
	SeatsSold         prometheus.Counter
	SeatsReleased     prometheus.Counter
	PNRsCommitted     prometheus.Counter
	DispatchDuration  prometheus.Histogram
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics registers and returns the instrument set under the given
// namespace. Register once per process; promauto panics on duplicates.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CommandsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_processed_total",
			Help:      "The total number of terminal commands dispatched",
		}, []string{"outcome"}),
		FaultsInjected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_injected_total",
			Help:      "The total number of simulated SYSTEM BUSY faults",
		}),
		SeatsSold: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_sold_total",
			Help:      "The total number of seats sold",
		}),
		SeatsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seats_released_total",
			Help:      "The total number of seats released by cancellations",
		}),
		PNRsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pnrs_committed_total",
			Help:      "The total number of successful end transactions",
		}),
		DispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_dispatch_seconds",
			Help:      "Time taken to dispatch a terminal command",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of internal errors",
		}, []string{"operation"}),
	}
}
