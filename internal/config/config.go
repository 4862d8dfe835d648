package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// LLM (Groq, OpenAI-compatible chat completions)
	GroqAPIKey     string
	GroqAPIURL     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int

	// Pricing rubric override (YAML). Empty uses the embedded default.
	PricingRubricFile string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Observability
	OTLPEndpoint string

	// ROI calculator assumptions
	ROIMonthlyHours  float64
	ROIContractCost  float64
	ROITimeReduction float64
	ROILaborCharges  float64
	ROIRevealDelay   time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GroqAPIURL:     getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1"),
		LLMModel:       getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 50),

		PricingRubricFile: getEnv("PRICING_RUBRIC_FILE", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 0),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		ROIMonthlyHours:  getEnvFloat("ROI_MONTHLY_HOURS", 160),
		ROIContractCost:  getEnvFloat("ROI_CONTRACT_COST", 6000),
		ROITimeReduction: getEnvFloat("ROI_TIME_REDUCTION", 70),
		ROILaborCharges:  getEnvFloat("ROI_LABOR_CHARGES", 0.54),
		ROIRevealDelay:   getEnvDuration("ROI_REVEAL_DELAY", time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
