package metrics

import (
	"net/http"

	"github.com/carmarket/listing-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds custom Prometheus metrics for the listing service.
type Manager struct {
	Registry             *prometheus.Registry
	ListingsCreatedTotal prometheus.Counter
	SearchesTotal        prometheus.Counter
	FeedRefreshesTotal   prometheus.Counter
	EnquiriesTotal       prometheus.Counter
	HTTPErrorsTotal      *prometheus.CounterVec
	HTTPLatency          *prometheus.HistogramVec
}

// NewManager initializes and registers the service metrics on a dedicated
// registry.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	listingsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	searches := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total number of browse/search requests served.",
	})
	feedRefreshes := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_refreshes_total",
		Help:      "Total number of feed refetches triggered by change events.",
	})
	enquiries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enquiries_total",
		Help:      "Total number of buyer enquiries accepted.",
	})
	httpErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP errors by route and status.",
	}, []string{"route", "status"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreated,
		searches,
		feedRefreshes,
		enquiries,
		httpErrors,
		httpLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:             registry,
		ListingsCreatedTotal: listingsCreated,
		SearchesTotal:        searches,
		FeedRefreshesTotal:   feedRefreshes,
		EnquiriesTotal:       enquiries,
		HTTPErrorsTotal:      httpErrors,
		HTTPLatency:          httpLatency,
	}
}

// StartServer exposes the registry on /metrics and blocks serving it.
func StartServer(port string, log *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
