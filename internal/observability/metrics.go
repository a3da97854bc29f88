// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	RunsStarted    *prometheus.CounterVec
	RunsCompleted  *prometheus.CounterVec
	RunsFailed     *prometheus.CounterVec
	DaysSimulated  prometheus.Counter
	RunDuration    *prometheus.HistogramVec
	TokensMinted   prometheus.Counter
	TokensBurned   prometheus.Counter

	// Current-run state gauges
	CurrentPrice  *prometheus.GaugeVec
	CurrentSupply *prometheus.GaugeVec

	// Valuation metrics
	ValuationsComputed prometheus.Counter
	RecommendedPrice   *prometheus.GaugeVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Streaming metrics
	WSClientsConnected prometheus.Gauge
	WSMessagesSent     prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "viwo_token_lab"
	}

	return &Metrics{
		// Simulation metrics
		RunsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_started_total",
			Help:      "Total number of simulation runs started by scenario",
		}, []string{"scenario"}),
		RunsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_completed_total",
			Help:      "Total number of simulation runs completed by scenario",
		}, []string{"scenario"}),
		RunsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_failed_total",
			Help:      "Total number of simulation runs failed by scenario",
		}, []string{"scenario"}),
		DaysSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "days_simulated_total",
			Help:      "Total number of days simulated across all runs",
		}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of simulation runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scenario"}),
		TokensMinted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "tokens_minted_total",
			Help:      "Total tokens minted as rewards across all runs",
		}),
		TokensBurned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "tokens_burned_total",
			Help:      "Total tokens burned across all runs",
		}),

		// Current-run state gauges
		CurrentPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "current_price",
			Help:      "Token price of the most recently simulated day by run",
		}, []string{"run_id"}),
		CurrentSupply: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "current_supply",
			Help:      "Total supply of the most recently simulated day by run",
		}, []string{"run_id"}),

		// Valuation metrics
		ValuationsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "valuations_computed_total",
			Help:      "Total number of cold-start valuations computed",
		}),
		RecommendedPrice: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "valuation",
			Name:      "recommended_price",
			Help:      "Most recent recommended launch price by scenario",
		}, []string{"scenario"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Streaming metrics
		WSClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "ws_clients_connected",
			Help:      "Current number of connected websocket clients",
		}),
		WSMessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "ws_messages_sent_total",
			Help:      "Total number of websocket messages sent",
		}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful simulation run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRunStarted increments the runs started counter.
func RecordRunStarted(scenario string) {
	DefaultMetrics.RunsStarted.WithLabelValues(scenario).Inc()
}

// RecordRunCompleted records a finished run and its flow totals.
func RecordRunCompleted(scenario string, durationSeconds, minted, burned float64) {
	DefaultMetrics.RunsCompleted.WithLabelValues(scenario).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(scenario).Observe(durationSeconds)
	DefaultMetrics.TokensMinted.Add(minted)
	DefaultMetrics.TokensBurned.Add(burned)
}

// RecordRunFailed increments the runs failed counter.
func RecordRunFailed(scenario string) {
	DefaultMetrics.RunsFailed.WithLabelValues(scenario).Inc()
}

// RecordDaySimulated updates per-day counters and state gauges.
func RecordDaySimulated(runID string, price, supply float64) {
	DefaultMetrics.DaysSimulated.Inc()
	DefaultMetrics.CurrentPrice.WithLabelValues(runID).Set(price)
	DefaultMetrics.CurrentSupply.WithLabelValues(runID).Set(supply)
}

// RecordValuation records a computed valuation.
func RecordValuation(scenario string, recommendedPrice float64) {
	DefaultMetrics.ValuationsComputed.Inc()
	DefaultMetrics.RecommendedPrice.WithLabelValues(scenario).Set(recommendedPrice)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
