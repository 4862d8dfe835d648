package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/observability"
	"github.com/boddenberg/automation-roi-go/internal/port"
	"github.com/boddenberg/automation-roi-go/internal/presenter"
	"github.com/boddenberg/automation-roi-go/internal/service"
	"github.com/boddenberg/automation-roi-go/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// maxBodyBytes caps request bodies on the JSON endpoints.
const maxBodyBytes = 64 << 10

// Response headers describing how an estimate was produced.
const (
	HeaderEstimateID     = "X-Estimate-Id"
	HeaderEstimateSource = "X-Estimate-Source"
)

// LLMHealth reports the circuit breaker state of the LLM client.
type LLMHealth interface {
	State() gobreaker.State
}

// NewRouter creates the HTTP router with all routes and middleware.
// llm may be nil when no API key is configured.
func NewRouter(estimator port.CostEstimator, roi port.ROICalculator, llm LLMHealth, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(CORS)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(methodNotAllowed)

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(llm))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- Calculator page ---
	r.Get("/", web.IndexHandler)

	// --- Estimate (every method reaches the handler so it can answer 405 itself) ---
	r.HandleFunc("/estimate", estimateHandler(estimator, logger))
	r.HandleFunc("/api/estimate", estimateHandler(estimator, logger))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Post("/roi", roiHandler(roi, logger))
		r.Get("/metrics/estimate", estimateMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Estimate: POST /estimate
// ============================================================

func estimateHandler(estimator port.CostEstimator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r)
			return
		}

		ctx, span := tracer.Start(r.Context(), "POST /estimate")
		defer span.End()

		var req domain.EstimateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			logger.Debug("undecodable estimate body", zap.Error(err))
			writeError(w, http.StatusBadRequest, service.InvalidDescriptionMessage)
			return
		}

		est, err := estimator.Estimate(ctx, req.Description)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(
			attribute.String("estimate.id", est.ID),
			attribute.Int("estimate.cost", est.Cost),
		)

		w.Header().Set(HeaderEstimateID, est.ID)
		w.Header().Set(HeaderEstimateSource, sourceHeader(est))
		writeJSON(w, http.StatusOK, domain.EstimateResponse{Cost: est.Cost})
	}
}

func sourceHeader(est *domain.Estimate) string {
	if est.Source == domain.SourceFallback {
		return fmt.Sprintf("%s:%s", est.Source, est.Reason)
	}
	return string(est.Source)
}

// ============================================================
// ROI: POST /v1/roi
// ============================================================

func roiHandler(roi port.ROICalculator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/roi")
		defer span.End()

		var req domain.ROIRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		m, err := roi.Calculate(ctx, domain.ROIInputs{
			MonthlySalary: decimal.NewFromFloat(req.MonthlySalary),
			TimeSpent:     decimal.NewFromFloat(req.TimeSpent),
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("roi.break_even_month", m.BreakEvenMonth))

		writeJSON(w, http.StatusOK, presenter.BuildResponse(m))
	}
}

// ============================================================
// Metrics & Health
// ============================================================

func estimateMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetEstimateSnapshot())
	}
}

func healthzHandler(llm LLMHealth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "roi-api", Status: "healthy", LastChecked: now},
			llmHealth(llm, now),
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

// llmHealth maps the breaker state. Estimates keep answering with the
// fallback cost while the circuit is open, so the API itself stays up.
func llmHealth(llm LLMHealth, now string) domain.ServiceHealth {
	h := domain.ServiceHealth{Name: "groq", LastChecked: now}
	if llm == nil {
		h.Status = "degraded"
		h.Detail = "disabled: GROQ_API_KEY not set"
		return h
	}
	state := llm.State()
	h.Detail = "circuit " + state.String()
	switch state {
	case gobreaker.StateClosed:
		h.Status = "healthy"
	case gobreaker.StateHalfOpen:
		h.Status = "degraded"
	default:
		h.Status = "unhealthy"
	}
	return h
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
