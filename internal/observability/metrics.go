package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

const namespace = "ticket_dashboard"

// Metrics holds the Prometheus collectors exported on /metrics.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	ticketEvents    *prometheus.CounterVec
	maintenanceRuns *prometheus.CounterVec
	breachesFlagged prometheus.Counter
	autoClosed      prometheus.Counter
	ticketsByStatus *prometheus.GaugeVec
	breachedTickets prometheus.Gauge
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Error responses by route, method and error code.",
		}, []string{"path", "method", "code"}),
		ticketEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_events_total",
			Help:      "Ticket events emitted by type.",
		}, []string{"type"}),
		maintenanceRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_runs_total",
			Help:      "Maintenance sweeps by outcome.",
		}, []string{"outcome"}),
		breachesFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_breaches_flagged_total",
			Help:      "Tickets flagged as SLA breached by maintenance sweeps.",
		}),
		autoClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "maintenance_auto_closed_total",
			Help:      "Tickets closed for inactivity.",
		}),
		ticketsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tickets",
			Help:      "Tickets by status at the last stats computation.",
		}, []string{"status"}),
		breachedTickets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tickets_sla_breached",
			Help:      "Tickets flagged as SLA breached at the last stats computation.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.errors,
		m.ticketEvents,
		m.maintenanceRuns,
		m.breachesFlagged,
		m.autoClosed,
		m.ticketsByStatus,
		m.breachedTickets,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordTicketEvent counts an emitted ticket event.
func (m *Metrics) RecordTicketEvent(eventType string) {
	if m == nil {
		return
	}
	m.ticketEvents.WithLabelValues(eventType).Inc()
}

// RecordMaintenance counts a sweep and what it changed.
func (m *Metrics) RecordMaintenance(outcome string, breached, closed int) {
	if m == nil {
		return
	}
	m.maintenanceRuns.WithLabelValues(outcome).Inc()
	m.breachesFlagged.Add(float64(breached))
	m.autoClosed.Add(float64(closed))
}

// ObserveStats publishes a stats snapshot as gauges.
func (m *Metrics) ObserveStats(snapshot domain.StatsSnapshot) {
	if m == nil {
		return
	}
	for status, count := range snapshot.ByStatus {
		m.ticketsByStatus.WithLabelValues(string(status)).Set(float64(count))
	}
	m.breachedTickets.Set(float64(snapshot.SLABreached))
}
