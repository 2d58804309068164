// Package metrics exposes Prometheus metrics for signup submissions.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendant/simple-profile/pkg/signup"
)

// Config adds constant labels to every series.
type Config struct {
	ServiceName string
	Environment string
}

// SignupMetrics records signup.Controller submissions. It implements
// signup.SubmissionRecorder.
type SignupMetrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewSignupMetrics creates the collectors and registers them on registerer.
// A nil registerer means prometheus.DefaultRegisterer.
func NewSignupMetrics(registerer prometheus.Registerer, cfg Config) *SignupMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "simple-profile"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "signup_submissions_total",
		Help:        "Signup form submissions by outcome.",
		ConstLabels: constLabels,
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "signup_submission_duration_seconds",
		Help:        "Time spent waiting for the account service.",
		Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"outcome"})

	registerer.MustRegister(submissions, duration)

	return &SignupMetrics{
		submissions: submissions,
		duration:    duration,
	}
}

// RecordSubmission counts one submission. Durations are only observed for
// submissions that reached the account service.
func (m *SignupMetrics) RecordSubmission(outcome signup.Outcome, d time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(outcome)).Inc()
	if outcome == signup.OutcomeSuccess || outcome == signup.OutcomeServerFailed {
		m.duration.WithLabelValues(string(outcome)).Observe(d.Seconds())
	}
}
