package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "yield_aggregator"

	resultOK           = "ok"
	resultFetchError   = "fetch_error"
	resultComputeError = "compute_error"
	resultStoreError   = "store_error"
)

// Metrics exposes the latest yields and check outcomes.
type Metrics struct {
	apy        *prometheus.GaugeVec
	venue      prometheus.Gauge
	checks     *prometheus.CounterVec
	rebalances prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		apy: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "apy_ratio",
			Help:      "Latest annualized yield per venue as a fraction (0.02 is 2%).",
		}, []string{"venue"}),
		venue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "venue",
			Help:      "Selected venue: 0 none, 1 compound, 2 aave.",
		}),
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "checks_total",
			Help:      "Yield checks by result.",
		}, []string{"result"}),
		rebalances: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rebalances_total",
			Help:      "Checks that moved funds from one venue to the other.",
		}),
	}
}

func (m *Metrics) ObserveCheck(c Check) {
	m.apy.WithLabelValues(c.Compound.Venue.String()).Set(c.Decision.Compound.Decimal().InexactFloat64())
	m.apy.WithLabelValues(c.Aave.Venue.String()).Set(c.Decision.Aave.Decimal().InexactFloat64())
	m.venue.Set(float64(c.Decision.To))
	m.checks.WithLabelValues(resultOK).Inc()
	if c.Decision.Rebalance() {
		m.rebalances.Inc()
	}
}

func (m *Metrics) ObserveFailure(result string) {
	m.checks.WithLabelValues(result).Inc()
}
