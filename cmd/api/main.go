package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/automation-roi-go/internal/config"
	"github.com/boddenberg/automation-roi-go/internal/handler"
	"github.com/boddenberg/automation-roi-go/internal/infra/llm"
	"github.com/boddenberg/automation-roi-go/internal/infra/observability"
	"github.com/boddenberg/automation-roi-go/internal/infra/resilience"
	"github.com/boddenberg/automation-roi-go/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, "automation-roi-api")
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("llm_model", cfg.LLMModel),
		zap.String("groq_api_url", cfg.GroqAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.String("pricing_rubric_file", cfg.PricingRubricFile),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "automation-roi-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("groq", logger)
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- LLM client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	groq := llm.NewGroqClient(httpClient, cfg.GroqAPIURL, cfg.GroqAPIKey, cb, resilienceCfg)

	var llmHealth handler.LLMHealth = groq
	enabled := cfg.GroqAPIKey != ""
	if !enabled {
		llmHealth = nil
		logger.Warn("GROQ_API_KEY not set: every estimate will answer the fallback cost")
	}

	// --- Prompt ---
	rubric, err := service.LoadRubric(cfg.PricingRubricFile)
	if err != nil {
		logger.Fatal("failed to load pricing rubric", zap.Error(err))
	}
	prompts, err := service.NewPromptBuilder(rubric)
	if err != nil {
		logger.Fatal("failed to build prompt template", zap.Error(err))
	}

	// --- Services ---
	estimateSvc := service.NewEstimateService(
		groq,
		prompts,
		service.EstimatorConfig{
			Model:       cfg.LLMModel,
			Temperature: float32(cfg.LLMTemperature),
			MaxTokens:   cfg.LLMMaxTokens,
			Enabled:     enabled,
		},
		bulkhead,
		metrics,
		logger,
	)

	assumptions, err := service.AssumptionsFromFloats(cfg.ROIMonthlyHours, cfg.ROIContractCost, cfg.ROITimeReduction, cfg.ROILaborCharges)
	if err != nil {
		logger.Fatal("invalid ROI assumptions", zap.Error(err))
	}
	roiSvc := service.NewROIService(assumptions, metrics, logger)

	// --- Router ---
	router := handler.NewRouter(estimateSvc, roiSvc, llmHealth, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
