package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentic-social/agentic-social/pkg/metrics"
	"github.com/agentic-social/agentic-social/pkg/types"
)

type Metrics struct {
	apiResponseTime     *prometheus.HistogramVec
	apiErrorCounter     *prometheus.CounterVec
	summaryGenerateTime *prometheus.HistogramVec
	shareAttempt        *prometheus.CounterVec
	workflowTransition  *prometheus.CounterVec
	workflowActiveRuns  *prometheus.GaugeVec
	shareLogEntries     *prometheus.GaugeVec
}

func NewMetrics(ns, system string, registry *prometheus.Registry) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, registry)

	return &Metrics{
		apiResponseTime:     metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:     metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		summaryGenerateTime: metrics.NewHistogramVec("summary_generate_time", []string{"platform"}, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
		shareAttempt:        metrics.NewCounterVec("share_attempt", []string{"platform", "status"}),
		workflowTransition:  metrics.NewCounterVec("workflow_transition", []string{"action", "result"}),
		workflowActiveRuns:  metrics.NewGaugeVec("workflow_active_runs", nil),
		shareLogEntries:     metrics.NewGaugeVec("share_log_entries", []string{"status"}),
	}
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) SummaryTimer(platform types.Platform) *prometheus.Timer {
	return prometheus.NewTimer(m.summaryGenerateTime.WithLabelValues(string(platform)))
}

func (m *Metrics) ShareAttemptInc(platform types.Platform, status types.ShareStatus) {
	m.shareAttempt.WithLabelValues(string(platform), string(status)).Inc()
}

// WorkflowTransitionInc result 为 ok 或错误类型
func (m *Metrics) WorkflowTransitionInc(action, result string) {
	m.workflowTransition.WithLabelValues(action, result).Inc()
}

func (m *Metrics) SetActiveRuns(n int) {
	m.workflowActiveRuns.WithLabelValues().Set(float64(n))
}

func (m *Metrics) SetShareLogEntries(stats types.ShareStats) {
	for _, status := range []types.ShareStatus{types.ShareStatusInitiated, types.ShareStatusCompleted, types.ShareStatusFailed} {
		m.shareLogEntries.WithLabelValues(string(status)).Set(float64(stats.ByStatus[status]))
	}
}
