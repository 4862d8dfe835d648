package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual service.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Detail      string `json:"detail,omitempty"`
	LastChecked string `json:"lastChecked"`
}

// EstimateMetrics is returned by GET /v1/metrics/estimate.
type EstimateMetrics struct {
	TotalEstimates      int64            `json:"totalEstimates"`
	ModelEstimates      int64            `json:"modelEstimates"`
	FallbackEstimates   int64            `json:"fallbackEstimates"`
	FallbackRate        float64          `json:"fallbackRate"`
	FallbacksByReason   map[string]int64 `json:"fallbacksByReason"`
	RejectedRequests    int64            `json:"rejectedRequests"`
	AvgTokensPerRequest float64          `json:"avgTokensPerRequest"`
	ROICalculations     int64            `json:"roiCalculations"`
	Period              string           `json:"period"`
}
