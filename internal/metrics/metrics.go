// Package metrics holds the Prometheus collectors for form submissions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-regform/pkg/form"
)

// Surface labels.
const (
	SurfaceHTML = "html"
	SurfaceAPI  = "api"
	SurfaceTUI  = "tui"
)

// Metrics holds Prometheus collectors for registration submits.
type Metrics struct {
	SubmissionsTotal  *prometheus.CounterVec
	FieldErrorsTotal  *prometheus.CounterVec
	ValidationLatency *prometheus.HistogramVec
	RendersTotal      *prometheus.CounterVec
}

// New registers and returns the collectors on reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_submissions_total",
			Help: "Total number of submit attempts, labeled by surface and outcome",
		}, []string{"surface", "outcome"}),
		FieldErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_field_errors_total",
			Help: "Total number of field issues reported on rejected submits, labeled by field and code",
		}, []string{"field", "code"}),
		ValidationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regform_validation_latency_seconds",
			Help:    "Latency of full-form validation in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}, []string{"surface"}),
		RendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "regform_renders_total",
			Help: "Total number of form renders, labeled by renderer",
		}, []string{"renderer"}),
	}
}

// SubmitHook returns a controller hook recording every submit for surface.
func (m *Metrics) SubmitHook(surface string) func(form.SubmitEvent) {
	return func(event form.SubmitEvent) {
		m.ObserveSubmit(surface, event)
	}
}

// ObserveSubmit records the outcome, latency and field issues of event.
func (m *Metrics) ObserveSubmit(surface string, event form.SubmitEvent) {
	if m == nil {
		return
	}
	outcome := "rejected"
	if event.State == form.StateAccepted {
		outcome = "accepted"
	}
	m.SubmissionsTotal.WithLabelValues(surface, outcome).Inc()
	m.ValidationLatency.WithLabelValues(surface).Observe(event.Duration.Seconds())
	for path, issues := range event.Errors {
		for _, issue := range issues {
			m.FieldErrorsTotal.WithLabelValues(path, string(issue.Code)).Inc()
		}
	}
}

// IncrementRenders counts one render by renderer.
func (m *Metrics) IncrementRenders(renderer string) {
	if m == nil {
		return
	}
	m.RendersTotal.WithLabelValues(renderer).Inc()
}
