// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendationsTotal counts engine runs by mode and outcome.
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attire_recommendations_total",
		Help: "Total number of recommendation requests",
	}, []string{"mode", "outcome"})

	// RecommendedItems counts returned recommendations by source.
	RecommendedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attire_recommended_items_total",
		Help: "Total number of recommendations returned, by source",
	}, []string{"source"})

	// RecommendationLatency measures engine latency.
	RecommendationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attire_recommendation_latency_seconds",
		Help:    "Recommendation engine latency in seconds",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	}, []string{"mode"})

	// WeatherLookups counts weather lookups by outcome.
	WeatherLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attire_weather_lookups_total",
		Help: "Total number of weather lookups",
	}, []string{"outcome"})

	// WeatherLatency measures upstream weather latency.
	WeatherLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "attire_weather_latency_seconds",
		Help:    "Weather provider latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// CircuitBreakerState is the current breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "attire_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attire_circuit_breaker_transitions_total",
		Help: "Total number of circuit breaker state transitions",
	}, []string{"name", "from", "to"})

	// Renders counts image render requests by provider and outcome.
	Renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attire_renders_total",
		Help: "Total number of image render requests",
	}, []string{"provider", "outcome"})

	// CatalogItems is the size of the current catalog snapshot.
	CatalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "attire_catalog_items",
		Help: "Number of items in the current catalog snapshot",
	})

	// CatalogReloads counts catalog reload attempts by outcome.
	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attire_catalog_reloads_total",
		Help: "Total number of catalog reload attempts",
	}, []string{"outcome"})
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
	OutcomeFallback = "fallback"
)
