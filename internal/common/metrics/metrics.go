// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

var (
	CountryRuleLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "country_rule_lookups_total",
			Help: "Country record lookups by source and outcome (hit, fetched, not_found, error, canceled)",
		},
		[]string{"source", "outcome"},
	)

	FieldValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_validations_total",
			Help: "Donor field validations by rule kind and failure reason (empty reason means valid)",
		},
		[]string{"field_kind", "reason"},
	)
)
