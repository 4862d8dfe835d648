package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/observability"
	"github.com/boddenberg/automation-roi-go/internal/infra/resilience"
	"github.com/boddenberg/automation-roi-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// InvalidDescriptionMessage is returned to the caller for short or missing descriptions.
const InvalidDescriptionMessage = "Descrição inválida"

// EstimatorConfig holds the fixed model parameters of every estimate.
type EstimatorConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int

	// Enabled is false when no API key is configured; every estimate then
	// answers the fallback without calling the model.
	Enabled bool
}

// EstimateService asks the LLM for a price estimate and always resolves to a
// cost, falling back to domain.FallbackEstimateCost on any upstream problem.
type EstimateService struct {
	llm      port.ChatCompleter
	prompts  *PromptBuilder
	cfg      EstimatorConfig
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewEstimateService creates the estimate service with all dependencies injected.
func NewEstimateService(
	llm port.ChatCompleter,
	prompts *PromptBuilder,
	cfg EstimatorConfig,
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		llm:      llm,
		prompts:  prompts,
		cfg:      cfg,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// Estimate validates the description and returns an estimate.
// The only error it returns is *domain.ErrValidation; upstream failures are
// recovered into a fallback estimate.
func (s *EstimateService) Estimate(ctx context.Context, description string) (*domain.Estimate, error) {
	ctx, span := tracer.Start(ctx, "EstimateService.Estimate")
	defer span.End()

	if utf8.RuneCountInString(description) < domain.MinDescriptionLength {
		s.metrics.IncrRejected()
		return nil, &domain.ErrValidation{Field: "description", Message: InvalidDescriptionMessage}
	}

	est := &domain.Estimate{ID: uuid.NewString()}
	span.SetAttributes(attribute.String("estimate.id", est.ID))

	start := time.Now()
	defer func() {
		est.Latency = time.Since(start)
		s.metrics.RecordRequestDuration("estimate", est.Latency)
		s.metrics.RecordEstimate(est.Source, est.Reason)
		span.SetAttributes(
			attribute.Int("estimate.cost", est.Cost),
			attribute.String("estimate.source", string(est.Source)),
			attribute.String("estimate.reason", string(est.Reason)),
		)
	}()

	if !s.cfg.Enabled {
		s.fallback(est, domain.ReasonDisabled, nil)
		return est, nil
	}

	prompt, err := s.prompts.Build(description)
	if err != nil {
		s.fallback(est, domain.ReasonUpstreamError, err)
		return est, nil
	}

	if err := s.bulkhead.Acquire(ctx); err != nil {
		s.fallback(est, domain.ReasonTimeout, err)
		return est, nil
	}
	defer s.bulkhead.Release()

	llmStart := time.Now()
	resp, err := s.llm.Complete(ctx, &domain.ChatCompletionRequest{
		Model:        s.cfg.Model,
		SystemPrompt: SystemPrompt,
		UserPrompt:   prompt,
		Temperature:  s.cfg.Temperature,
		MaxTokens:    s.cfg.MaxTokens,
	})
	s.metrics.RecordRequestDuration("llm", time.Since(llmStart))

	if err != nil {
		reason := classifyUpstream(err)
		if reason != domain.ReasonCircuitOpen {
			s.metrics.IncrExternalError("groq")
		}
		s.fallback(est, reason, err)
		return est, nil
	}

	est.Reply = resp.Content
	est.TokensUsed = resp.TokensUsed
	s.metrics.RecordTokens(resp.TokensUsed.PromptTokens, resp.TokensUsed.CompletionTokens)

	cost, reason := ResolveCost(resp.Content)
	if reason != domain.ReasonNone {
		s.fallback(est, reason, nil)
		return est, nil
	}

	est.Cost = cost
	est.Source = domain.SourceModel
	s.logger.Info("estimate resolved",
		zap.String("estimate_id", est.ID),
		zap.Int("cost", cost),
		zap.Int("total_tokens", resp.TokensUsed.TotalTokens),
	)
	return est, nil
}

func (s *EstimateService) fallback(est *domain.Estimate, reason domain.FallbackReason, err error) {
	est.Cost = domain.FallbackEstimateCost
	est.Source = domain.SourceFallback
	est.Reason = reason

	fields := []zap.Field{
		zap.String("estimate_id", est.ID),
		zap.String("reason", string(reason)),
		zap.Int("cost", est.Cost),
	}
	if est.Reply != "" {
		fields = append(fields, zap.String("reply", est.Reply))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn("estimate fell back to default cost", fields...)
}

func classifyUpstream(err error) domain.FallbackReason {
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	switch {
	case errors.As(err, &circuitOpen):
		return domain.ReasonCircuitOpen
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return domain.ReasonTimeout
	default:
		return domain.ReasonUpstreamError
	}
}
