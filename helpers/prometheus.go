package helpers

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	requestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Tracks the number of HTTP requests.",
	})

	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Tracks the latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	})

	notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nido_notifications_total",
		Help: "Tracks the number of notifications created, per type.",
	}, []string{"type"})

	searchFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nido_search_fallback_total",
		Help: "Tracks searches answered by the simple fallback instead of the ranked procedure.",
	}, []string{"kind"})

	registry     *prometheus.Registry
	registryOnce sync.Once
)

// GetRegistery returns the registry holding every collector
func GetRegistery() *prometheus.Registry {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			requestsTotal,
			requestDuration,
			notificationsTotal,
			searchFallbackTotal,
		)
	})

	return registry
}

func IncrementRequests() {
	requestsTotal.Inc()
}

func ObserveRequestDuration(time float64) {
	requestDuration.Observe(time)
}

// IncrementNotifications counts a created notification
func IncrementNotifications(kind string) {
	notificationsTotal.WithLabelValues(kind).Inc()
}

// IncrementSearchFallback counts a search served by the fallback
func IncrementSearchFallback(kind string) {
	searchFallbackTotal.WithLabelValues(kind).Inc()
}
