package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hrportal"

// Workflow names used as label values.
const (
	WorkflowLogin          = "login"
	WorkflowCreateEmployee = "create_employee"
	WorkflowRegistration   = "complete_registration"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
)

var (
	submissionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Count of form submissions by workflow and outcome.",
		},
		[]string{"workflow", "outcome"},
	)
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of calls to the remote employee API.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "code"},
	)
)

var registerMetrics sync.Once

// Register all metrics with reg, once per process.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(submissionCounter)
		reg.MustRegister(apiRequestDuration)
	})
}

// RecordSubmission counts one submission attempt.
func RecordSubmission(workflow, outcome string) {
	submissionCounter.WithLabelValues(workflow, outcome).Inc()
}

// ObserveAPIRequest matches apiclient.ObserveFunc.
func ObserveAPIRequest(method, path string, status int, elapsed time.Duration) {
	code := "none"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	apiRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}
