// Package metrics provides the centralized Prometheus registry for the oracle.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sports_oracle"

// Settlement outcomes
const (
	SettlementApplied   = "applied"
	SettlementDuplicate = "duplicate"
	SettlementFailed    = "failed"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of event predictions rendered",
	}, []string{"sport"})
	SettlementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settlements_total",
		Help:      "Total number of settlement attempts by outcome",
	}, []string{"sport", "outcome"})
	SlatePublishesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slate_publishes_total",
		Help:      "Total number of daily slate posts",
	}, []string{"status"})
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of circuit breaker trips",
	}, []string{"client"})
)

// Gauge metrics
var (
	SlateEvents = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "slate_events",
		Help:      "Number of events on the most recently assembled slate",
	}, []string{"sport"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(SettlementsTotal)
		registry.MustRegister(SlatePublishesTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(SlateEvents)

		// Register source metrics
		registry.MustRegister(ScheduleFetchErrorsTotal)
		registry.MustRegister(ScheduleFetchDuration)
		registry.MustRegister(WeatherFetchesTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one rendered prediction.
func RecordPrediction(sport string) {
	PredictionsTotal.WithLabelValues(sport).Inc()
}

// RecordSettlement records a settlement attempt.
func RecordSettlement(sport, outcome string) {
	SettlementsTotal.WithLabelValues(sport, outcome).Inc()
}

// RecordSlatePublish records a daily post attempt.
func RecordSlatePublish(err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	SlatePublishesTotal.WithLabelValues(status).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker opening.
func RecordCircuitBreakerTrip(client string) {
	CircuitBreakerTripsTotal.WithLabelValues(client).Inc()
}

// UpdateSlateEvents sets the number of events on today's slate.
func UpdateSlateEvents(sport string, count int) {
	SlateEvents.WithLabelValues(sport).Set(float64(count))
}

// RecordScheduleFetch records the outcome and latency of a schedule request.
func RecordScheduleFetch(sport string, duration time.Duration, err error) {
	ScheduleFetchDuration.WithLabelValues(sport).Observe(duration.Seconds())
	if err != nil {
		ScheduleFetchErrorsTotal.WithLabelValues(sport).Inc()
	}
}
