// Package observability exposes Prometheus counters for the advisory pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the pipeline records into.
type Metrics struct {
	ChatTurns        prometheus.Counter
	ProviderAttempts *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ChainExhausted   prometheus.Counter
	ForecastFailures prometheus.Counter
}

// NewMetrics creates and registers the pipeline collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChatTurns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skynetra",
			Name:      "chat_turns_total",
			Help:      "Chat turns processed.",
		}),
		ProviderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skynetra",
			Name:      "provider_attempts_total",
			Help:      "Generation attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skynetra",
			Name:      "response_cache_hits_total",
			Help:      "Chat turns answered from the response cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skynetra",
			Name:      "response_cache_misses_total",
			Help:      "Cache lookups that fell through to the provider chain.",
		}),
		ChainExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skynetra",
			Name:      "provider_chain_exhausted_total",
			Help:      "Turns where every provider failed and the offline responder answered.",
		}),
		ForecastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skynetra",
			Name:      "forecast_failures_total",
			Help:      "Forecast fetches that returned no usable data.",
		}),
	}
	reg.MustRegister(
		m.ChatTurns,
		m.ProviderAttempts,
		m.CacheHits,
		m.CacheMisses,
		m.ChainExhausted,
		m.ForecastFailures,
	)
	return m
}
