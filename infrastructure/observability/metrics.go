package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"processflow/application/ports"
	"processflow/domain/events"
)

// Collector holds the Prometheus metrics of one service instance
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Command metrics
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Record events
	RecordEvents *prometheus.CounterVec

	// Analytics API calls
	AnalyticsFetches *prometheus.CounterVec
	AnalyticsLatency *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Total number of commands handled",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Command handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		RecordEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "record_events_total",
				Help:      "Total number of record events published",
			},
			[]string{"type"},
		),
		AnalyticsFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analytics_fetches_total",
				Help:      "Total number of analytics API calls",
			},
			[]string{"path", "status"},
		),
		AnalyticsLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analytics_fetch_duration_seconds",
				Help:      "Analytics API call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Commands,
		c.CommandDuration,
		c.RecordEvents,
		c.AnalyticsFetches,
		c.AnalyticsLatency,
		collectors.NewGoCollector(),
	)
	return c
}

// Handler serves the metrics in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveCommand records one command execution
func (c *Collector) ObserveCommand(name string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.Commands.WithLabelValues(name, status).Inc()
	c.CommandDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveFetch records one analytics API call
func (c *Collector) ObserveFetch(path string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.AnalyticsFetches.WithLabelValues(path, status).Inc()
	c.AnalyticsLatency.WithLabelValues(path).Observe(d.Seconds())
}

// Middleware records request counts and latency by chi route pattern
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// CountingBus counts events by type before passing them on
type CountingBus struct {
	next      ports.EventBus
	collector *Collector
}

// NewCountingBus wraps next so every published event is counted
func NewCountingBus(next ports.EventBus, collector *Collector) ports.EventBus {
	return &CountingBus{next: next, collector: collector}
}

// Publish counts and forwards one event
func (b *CountingBus) Publish(ctx context.Context, event events.DomainEvent) error {
	b.collector.RecordEvents.WithLabelValues(event.GetEventType()).Inc()
	return b.next.Publish(ctx, event)
}

// PublishBatch counts and forwards a batch
func (b *CountingBus) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		b.collector.RecordEvents.WithLabelValues(event.GetEventType()).Inc()
	}
	return b.next.PublishBatch(ctx, domainEvents)
}
