package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction and recommendation metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Total number of emotion predictions by label",
		},
		[]string{"emotion"},
	)

	PredictionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Feature extraction plus scoring time in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendation resolutions by source and fallback reason",
		},
		[]string{"source", "reason"},
	)

	SpotifyBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spotify_breaker_state",
			Help:      "Spotify circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	HistoryDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_dropped_total",
			Help:      "History entries dropped because the worker queue was full",
		},
	)
)

func init() {
	prometheus.MustRegister(
		PredictionsTotal,
		PredictionDuration,
		RecommendationsTotal,
		SpotifyBreakerState,
		HistoryDroppedTotal,
	)
}
