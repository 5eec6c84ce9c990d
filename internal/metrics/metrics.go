// Package metrics exposes Prometheus instruments for the settlement engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "howmuchah"

// Outcome labels for settlement attempts.
const (
	OutcomeSettled         = "settled"
	OutcomePerfectWash     = "perfect_wash"
	OutcomeNothingToSettle = "nothing_to_settle"
	OutcomeRejected        = "rejected"
	OutcomeFailed          = "failed"
)

// Recorder records settlement metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	settlements  *prometheus.CounterVec
	transactions *prometheus.CounterVec
	duration     prometheus.Histogram
	cacheLookups *prometheus.CounterVec
}

// NewRecorder creates the settlement instruments and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlement attempts by outcome.",
		}, []string{"outcome"}),
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_transactions_total",
			Help:      "Settlement transactions emitted, by currency.",
		}, []string{"currency"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_duration_seconds",
			Help:      "Time spent executing a settlement, lock wait included.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_cache_lookups_total",
			Help:      "Settlement detail cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.settlements, r.transactions, r.duration, r.cacheLookups)
	return r
}

// ObserveSettlement records one settlement attempt.
func (r *Recorder) ObserveSettlement(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.settlements.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// AddTransactions counts emitted transactions for a currency.
func (r *Recorder) AddTransactions(currency string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.transactions.WithLabelValues(currency).Add(float64(n))
}

// ObserveCacheLookup records a detail cache hit or miss.
func (r *Recorder) ObserveCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
