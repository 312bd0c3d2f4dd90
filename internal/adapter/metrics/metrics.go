// Package metrics exports grading counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/jobprep-2025.net/internal/core/ports/secondary"
	"gitlab.com/jobprep-2025.net/internal/domain"
)

var _ secondary.GradingMetrics = (*GradingMetrics)(nil)

type GradingMetrics struct {
	registry        *prometheus.Registry
	testCases       *prometheus.CounterVec
	testCaseSeconds *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	rejections      *prometheus.CounterVec
}

// NewGradingMetrics registers the grading collectors on a fresh registry
// together with the Go and process collectors.
func NewGradingMetrics() *GradingMetrics {
	m := &GradingMetrics{
		registry: prometheus.NewRegistry(),
		testCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grader",
			Name:      "test_cases_total",
			Help:      "Test cases executed, by language and outcome.",
		}, []string{"language", "status"}),
		testCaseSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "grader",
			Name:      "test_case_execution_seconds",
			Help:      "Execution time reported by the backend per test case.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"language"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grader",
			Name:      "submissions_total",
			Help:      "Graded submissions, by language and verdict.",
		}, []string{"language", "status"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grader",
			Name:      "rejections_total",
			Help:      "Requests rejected before execution.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.testCases,
		m.testCaseSeconds,
		m.submissions,
		m.rejections,
	)
	return m
}

func (m *GradingMetrics) ObserveTestCase(language string, status domain.ExecutionStatus, seconds float64) {
	m.testCases.WithLabelValues(language, string(status)).Inc()
	m.testCaseSeconds.WithLabelValues(language).Observe(seconds)
}

func (m *GradingMetrics) ObserveSubmission(language string, status domain.ExecutionStatus) {
	m.submissions.WithLabelValues(language, string(status)).Inc()
}

func (m *GradingMetrics) ObserveRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *GradingMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
