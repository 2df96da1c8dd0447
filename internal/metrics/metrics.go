// Package metrics defines the Prometheus counters for form submissions,
// validation errors and the session lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
)

// Metrics holds all Prometheus metrics for the registration form.
type Metrics struct {
	Submissions     *prometheus.CounterVec
	FieldErrors     *prometheus.CounterVec
	SessionsStarted prometheus.Counter
	SessionsExpired prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_submissions_total",
			Help: "Form submissions by outcome",
		}, []string{"outcome"}),
		FieldErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_field_errors_total",
			Help: "Validation errors reported on submit, by field and kind",
		}, []string{"field", "kind"}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "registration_sessions_started_total",
			Help: "Form sessions created",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "registration_sessions_expired_total",
			Help: "Form sessions removed after their TTL",
		}),
	}
}

// IncrementSubmissions counts one submit with the given outcome.
func (m *Metrics) IncrementSubmissions(outcome string) {
	m.Submissions.WithLabelValues(outcome).Inc()
}

// IncrementFieldError counts one field-level validation error.
func (m *Metrics) IncrementFieldError(field, kind string) {
	m.FieldErrors.WithLabelValues(field, kind).Inc()
}

// IncrementSessionsStarted counts one new session.
func (m *Metrics) IncrementSessionsStarted() {
	m.SessionsStarted.Inc()
}

// AddSessionsExpired counts n expired sessions.
func (m *Metrics) AddSessionsExpired(n int) {
	m.SessionsExpired.Add(float64(n))
}
