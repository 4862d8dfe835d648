package observability

import (
	"time"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var fallbackReasons = []domain.FallbackReason{
	domain.ReasonUpstreamError,
	domain.ReasonCircuitOpen,
	domain.ReasonTimeout,
	domain.ReasonDisabled,
	domain.ReasonNoNumber,
	domain.ReasonOutOfRange,
}

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	estimatesTotal  *prometheus.CounterVec
	fallbacksTotal  *prometheus.CounterVec
	rejectedTotal   prometheus.Counter
	tokensUsed      *prometheus.CounterVec
	roiCalculations *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roi_request_duration_seconds",
				Help:    "Duration of operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roi_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		estimatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roi_estimates_total",
				Help: "Total cost estimates answered, by source.",
			},
			[]string{"source"},
		),
		fallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roi_estimate_fallbacks_total",
				Help: "Total estimates answered with the fallback cost, by reason.",
			},
			[]string{"reason"},
		),
		rejectedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "roi_estimate_rejected_total",
				Help: "Total estimate requests rejected by validation.",
			},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roi_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		roiCalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roi_calculations_total",
				Help: "Total ROI calculations, by status.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// RecordEstimate counts an answered estimate and its fallback reason, if any.
func (m *Metrics) RecordEstimate(source domain.EstimateSource, reason domain.FallbackReason) {
	m.estimatesTotal.WithLabelValues(string(source)).Inc()
	if source == domain.SourceFallback {
		m.fallbacksTotal.WithLabelValues(string(reason)).Inc()
	}
}

// IncrRejected counts an estimate request rejected by validation.
func (m *Metrics) IncrRejected() {
	m.rejectedTotal.Inc()
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrROICalculation counts a ROI calculation with a status label.
func (m *Metrics) IncrROICalculation(status string) {
	m.roiCalculations.WithLabelValues(status).Inc()
}

// GetEstimateSnapshot returns a snapshot of estimate-related metrics suitable
// for the GET /v1/metrics/estimate endpoint.
func (m *Metrics) GetEstimateSnapshot() *domain.EstimateMetrics {
	modelCount := getCounterValue(m.estimatesTotal, string(domain.SourceModel))
	fallbackCount := getCounterValue(m.estimatesTotal, string(domain.SourceFallback))
	total := modelCount + fallbackCount

	byReason := make(map[string]int64, len(fallbackReasons))
	for _, r := range fallbackReasons {
		if v := getCounterValue(m.fallbacksTotal, string(r)); v > 0 {
			byReason[string(r)] = int64(v)
		}
	}

	tokens := getCounterValue(m.tokensUsed, "prompt") + getCounterValue(m.tokensUsed, "completion")

	fallbackRate := float64(0)
	avgTokens := float64(0)
	if total > 0 {
		fallbackRate = fallbackCount / total
	}
	if modelCount > 0 {
		avgTokens = tokens / modelCount
	}

	return &domain.EstimateMetrics{
		TotalEstimates:      int64(total),
		ModelEstimates:      int64(modelCount),
		FallbackEstimates:   int64(fallbackCount),
		FallbackRate:        fallbackRate,
		FallbacksByReason:   byReason,
		RejectedRequests:    int64(readCounter(m.rejectedTotal)),
		AvgTokensPerRequest: avgTokens,
		ROICalculations:     int64(getCounterValue(m.roiCalculations, "success")),
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return readCounter(cv.WithLabelValues(label))
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
