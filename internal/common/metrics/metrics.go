// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	apperrors "idea-validator/internal/common/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StageCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_stage_completed_total",
			Help: "Total number of validation stages completed",
		},
		[]string{"task_type"},
	)

	StageFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_stage_failed_total",
			Help: "Total number of validation stages failed",
		},
		[]string{"task_type", "error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "validation_stage_duration_seconds",
			Help:    "Duration of a validation stage in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"task_type"},
	)

	StagesActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "validation_stages_active",
			Help: "Number of in-flight validation stages",
		},
		[]string{"task_type"},
	)

	GatewayOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_gateway_outcomes_total",
			Help: "Model gateway results by outcome kind",
		},
		[]string{"outcome"},
	)

	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_store_operations_total",
			Help: "Record store operations by result",
		},
		[]string{"op", "status"},
	)

	AuthCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_cache_lookups_total",
			Help: "Token cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)
)

// ObserveStage marks a stage as started and returns a func that records its end.
// Pass a non-empty errorCode to count the stage as failed.
func ObserveStage(taskType string) func(errorCode string) {
	start := time.Now()
	StagesActive.WithLabelValues(taskType).Inc()
	return func(errorCode string) {
		StagesActive.WithLabelValues(taskType).Dec()
		StageDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode != "" {
			StageFailed.WithLabelValues(taskType, errorCode).Inc()
			return
		}
		StageCompleted.WithLabelValues(taskType).Inc()
	}
}

// StoreResult counts one store operation. Ownership and lookup rejections are counted
// apart from backend failures.
func StoreResult(op string, err error) {
	status := "ok"
	switch {
	case err == nil:
	case apperrors.HasCode(err, apperrors.ErrCodeStoreUnavailable):
		status = "error"
	default:
		status = "rejected"
	}
	StoreOperations.WithLabelValues(op, status).Inc()
}
