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
	// Subgraph metrics
	SubgraphRequests     *prometheus.CounterVec
	SubgraphErrors       *prometheus.CounterVec
	SubgraphRetries      prometheus.Counter
	SubgraphQueryLatency *prometheus.HistogramVec

	// Refresh metrics
	RefreshRunsTotal *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	PoolsEnriched    prometheus.Gauge
	PoolsMissingPair prometheus.Gauge
	PoolsMalformed   prometheus.Gauge
	LatestBlock      prometheus.Gauge
	AverageBlockTime prometheus.Gauge

	// Request metrics
	PortfolioRequests *prometheus.CounterVec
	PositionsExcluded prometheus.Counter
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec

	// Database metrics
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	HistoryRowsStored prometheus.Counter

	// WebSocket metrics
	WSClientsConnected prometheus.Gauge
	WSBroadcastsTotal  prometheus.Counter

	// Health metrics
	LastSuccessfulRefresh prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "defi_portfolio_lab"
	}

	return &Metrics{
		SubgraphRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subgraph",
			Name:      "requests_total",
			Help:      "Total number of subgraph queries by endpoint",
		}, []string{"endpoint"}),
		SubgraphErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subgraph",
			Name:      "errors_total",
			Help:      "Total number of failed subgraph queries by endpoint",
		}, []string{"endpoint"}),
		SubgraphRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subgraph",
			Name:      "retries_total",
			Help:      "Total number of retried subgraph requests",
		}),
		SubgraphQueryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "subgraph",
			Name:      "query_latency_seconds",
			Help:      "Subgraph query latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		RefreshRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "runs_total",
			Help:      "Total number of snapshot refresh runs by status",
		}, []string{"status"}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Snapshot refresh duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		PoolsEnriched: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "pools_enriched",
			Help:      "Number of pools in the last enriched listing",
		}),
		PoolsMissingPair: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "pools_missing_pair",
			Help:      "Number of pools skipped in the last refresh for missing pairs",
		}),
		PoolsMalformed: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "pools_malformed",
			Help:      "Number of pools rejected in the last refresh for contract violations",
		}),
		LatestBlock: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "latest_block",
			Help:      "Latest chain block number seen",
		}),
		AverageBlockTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "average_block_time_seconds",
			Help:      "Observed average block time in seconds",
		}),

		PortfolioRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "portfolio_requests_total",
			Help:      "Total number of portfolio requests by status",
		}, []string{"status"}),
		PositionsExcluded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "positions_excluded_total",
			Help:      "Total number of positions excluded for missing references",
		}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of snapshot cache hits by view",
		}, []string{"view"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of snapshot cache misses by view",
		}, []string{"view"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
		HistoryRowsStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "history_rows_stored_total",
			Help:      "Total number of pool yield history rows stored",
		}),

		WSClientsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients_connected",
			Help:      "Number of connected websocket clients",
		}),
		WSBroadcastsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "broadcasts_total",
			Help:      "Total number of pool-listing broadcasts",
		}),

		LastSuccessfulRefresh: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_refresh_timestamp",
			Help:      "Unix timestamp of the last successful refresh",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSubgraphQuery records one subgraph query outcome.
func RecordSubgraphQuery(endpoint string, seconds float64, err error) {
	DefaultMetrics.SubgraphRequests.WithLabelValues(endpoint).Inc()
	DefaultMetrics.SubgraphQueryLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		DefaultMetrics.SubgraphErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordRefresh records one refresh cycle.
func RecordRefresh(status string, seconds float64) {
	DefaultMetrics.RefreshRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RefreshDuration.Observe(seconds)
}

// UpdatePoolCounts updates the per-refresh pool gauges.
func UpdatePoolCounts(enriched, missingPair, malformed int) {
	DefaultMetrics.PoolsEnriched.Set(float64(enriched))
	DefaultMetrics.PoolsMissingPair.Set(float64(missingPair))
	DefaultMetrics.PoolsMalformed.Set(float64(malformed))
}

// UpdateTiming updates the chain timing gauges.
func UpdateTiming(latestBlock int64, averageBlockTime float64) {
	DefaultMetrics.LatestBlock.Set(float64(latestBlock))
	DefaultMetrics.AverageBlockTime.Set(averageBlockTime)
}

// RecordPortfolioRequest records a portfolio request outcome.
func RecordPortfolioRequest(status string, excluded int) {
	DefaultMetrics.PortfolioRequests.WithLabelValues(status).Inc()
	DefaultMetrics.PositionsExcluded.Add(float64(excluded))
}

// RecordCacheLookup records a snapshot cache hit or miss.
func RecordCacheLookup(view string, hit bool) {
	if hit {
		DefaultMetrics.CacheHits.WithLabelValues(view).Inc()
	} else {
		DefaultMetrics.CacheMisses.WithLabelValues(view).Inc()
	}
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
