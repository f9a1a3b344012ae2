package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Methods are
// nil-safe so tests can pass a nil *Metrics without stubbing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	UsersRegistered     prometheus.Counter
	LoginsTotal         *prometheus.CounterVec
	ApplicationsCreated prometheus.Counter
	DocumentsAttached   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_api_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "visa_api_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),

		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "visa_api_users_registered_total",
			Help: "Total end users registered",
		}),

		LoginsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "visa_api_logins_total",
			Help: "Total login attempts by principal kind and outcome",
		}, []string{"kind", "outcome"}),

		ApplicationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "visa_api_applications_created_total",
			Help: "Total visa applications created",
		}),

		DocumentsAttached: promauto.NewCounter(prometheus.CounterOpts{
			Name: "visa_api_documents_attached_total",
			Help: "Total documents attached to applications",
		}),
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestsTotal.WithLabelValues(route, status).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
	}
}

// IncrementUsersRegistered increments the registered-users counter.
func (m *Metrics) IncrementUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

// IncrementLogin records a login attempt outcome.
func (m *Metrics) IncrementLogin(kind, outcome string) {
	if m != nil {
		m.LoginsTotal.WithLabelValues(kind, outcome).Inc()
	}
}

// IncrementApplicationsCreated increments the applications counter.
func (m *Metrics) IncrementApplicationsCreated() {
	if m != nil {
		m.ApplicationsCreated.Inc()
	}
}

// IncrementDocumentsAttached increments the documents counter.
func (m *Metrics) IncrementDocumentsAttached() {
	if m != nil {
		m.DocumentsAttached.Inc()
	}
}
