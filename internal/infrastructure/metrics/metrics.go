package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Import metrics
	ImportsPreviewed     prometheus.Counter
	ImportsConfirmed     prometheus.Counter
	TransactionsImported prometheus.Counter
	ImportErrors         *prometheus.CounterVec
	ImportDuration       prometheus.Histogram

	// Report metrics
	ReportsComputed  prometheus.Counter
	ReportCacheHits  prometheus.Counter
	ReportCacheMiss  prometheus.Counter
	ReportDuration   prometheus.Histogram
	ReportErrors     *prometheus.CounterVec
	ExemptionsListed prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ImportsPreviewed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_imports_previewed_total",
			Help: "Total number of export files previewed",
		}),
		ImportsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_imports_confirmed_total",
			Help: "Total number of imports confirmed",
		}),
		TransactionsImported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_transactions_imported_total",
			Help: "Total number of transactions persisted via import",
		}),
		ImportErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_import_errors_total",
				Help: "Total number of import errors by type",
			},
			[]string{"error_type"},
		),
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryptobud_import_duration_seconds",
			Help:    "Duration of import operations",
			Buckets: prometheus.DefBuckets,
		}),

		ReportsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_reports_computed_total",
			Help: "Total number of tax reports computed",
		}),
		ReportCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_report_cache_hits_total",
			Help: "Total number of report cache hits",
		}),
		ReportCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_report_cache_misses_total",
			Help: "Total number of report cache misses",
		}),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryptobud_report_duration_seconds",
			Help:    "Duration of report computation",
			Buckets: prometheus.DefBuckets,
		}),
		ReportErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_report_errors_total",
				Help: "Total number of report errors by type",
			},
			[]string{"error_type"},
		),
		ExemptionsListed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cryptobud_exemption_projections_total",
			Help: "Total number of exemption projections served",
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptobud_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "cryptobud_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptobud_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),
	}
}
