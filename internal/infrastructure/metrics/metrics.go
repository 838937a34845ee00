package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	workflowTotal   *prometheus.CounterVec
	paymentsApplied prometheus.Counter
	amountApplied   prometheus.Counter
	enrollmentsPaid prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	workflowTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_operations_total",
		Help: "Workflow operations by name and outcome kind",
	}, []string{"operation", "outcome"})

	paymentsApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_applied_total",
		Help: "Payments transitioned to completed",
	})

	amountApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_applied_amount_total",
		Help: "Sum of completed payment amounts",
	})

	enrollmentsPaid := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_paid_in_full_total",
		Help: "Enrollments activated by reaching their total amount",
	})

	registry.MustRegister(
		requestDuration, requestTotal, workflowTotal,
		paymentsApplied, amountApplied, enrollmentsPaid,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		workflowTotal:   workflowTotal,
		paymentsApplied: paymentsApplied,
		amountApplied:   amountApplied,
		enrollmentsPaid: enrollmentsPaid,
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	s := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, s).Inc()
}

// ObserveWorkflow counts one workflow call; outcome is "ok" or an error kind.
func (m *Metrics) ObserveWorkflow(operation, outcome string) {
	if m == nil {
		return
	}
	m.workflowTotal.WithLabelValues(operation, outcome).Inc()
}

// PaymentApplied records a completed payment; amount is informational only.
func (m *Metrics) PaymentApplied(amount float64, paidInFull bool) {
	if m == nil {
		return
	}
	m.paymentsApplied.Inc()
	if amount > 0 {
		m.amountApplied.Add(amount)
	}
	if paidInFull {
		m.enrollmentsPaid.Inc()
	}
}
