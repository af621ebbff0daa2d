package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the analysis core
type Metrics struct {
	registry *prometheus.Registry

	Fallbacks *prometheus.CounterVec
	Analyses  prometheus.Counter
	CacheHits prometheus.Counter
	Refreshes prometheus.Counter
}

// NewMetrics creates collectors under namespace on a private registry
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Number of times a core operation returned its fallback value",
		},
		[]string{"operation"},
	)

	analyses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Number of content analyses computed",
		},
	)

	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_cache_hits_total",
			Help:      "Number of analyses served from the cache",
		},
	)

	refreshes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vault_refreshes_total",
			Help:      "Number of flashcard refreshes triggered by vault changes",
		},
	)

	registry.MustRegister(fallbacks, analyses, cacheHits, refreshes)

	return &Metrics{
		registry:  registry,
		Fallbacks: fallbacks,
		Analyses:  analyses,
		CacheHits: cacheHits,
		Refreshes: refreshes,
	}
}

// Registry exposes the registry for an HTTP handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Fallback implements Observer
func (m *Metrics) Fallback(operation string, _ error) {
	m.Fallbacks.WithLabelValues(operation).Inc()
}
