package metrics

import "github.com/prometheus/client_golang/prometheus"

// Weather fetch results
const (
	WeatherHit   = "hit"
	WeatherMiss  = "miss"
	WeatherError = "error"
)

// Upstream data source metrics
var (
	ScheduleFetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schedule_fetch_errors_total",
		Help:      "Total number of failed schedule fetches",
	}, []string{"sport"})

	ScheduleFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "schedule_fetch_duration_seconds",
		Help:      "Duration of schedule fetches in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"sport"})

	WeatherFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "weather_fetches_total",
		Help:      "Total number of weather lookups by cache result",
	}, []string{"result"})
)

// RecordWeatherFetch records a weather lookup: hit, miss or error.
func RecordWeatherFetch(result string) {
	WeatherFetchesTotal.WithLabelValues(result).Inc()
}
