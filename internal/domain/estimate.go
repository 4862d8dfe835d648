package domain

import "time"

// ============================================================
// Cost estimation: POST /estimate
// ============================================================

const (
	// MinDescriptionLength is the minimum number of characters (code points)
	// a project description must have.
	MinDescriptionLength = 10

	MinEstimateCost      = 1000
	MaxEstimateCost      = 50000
	FallbackEstimateCost = 6000
)

// EstimateRequest is the body of POST /estimate.
type EstimateRequest struct {
	Description string `json:"description"`
}

// EstimateResponse is the body returned by POST /estimate, including fallbacks.
type EstimateResponse struct {
	Cost int `json:"cost"`
}

// EstimateSource tells where the returned cost came from.
type EstimateSource string

const (
	SourceModel    EstimateSource = "model"
	SourceFallback EstimateSource = "fallback"
)

// FallbackReason explains why the fallback cost was used.
type FallbackReason string

const (
	ReasonNone          FallbackReason = ""
	ReasonUpstreamError FallbackReason = "upstream_error"
	ReasonCircuitOpen   FallbackReason = "circuit_open"
	ReasonTimeout       FallbackReason = "timeout"
	ReasonDisabled      FallbackReason = "disabled"
	ReasonNoNumber      FallbackReason = "no_number"
	ReasonOutOfRange    FallbackReason = "out_of_range"
)

// Estimate is the internal result of one estimation. Never persisted.
type Estimate struct {
	ID         string
	Cost       int
	Source     EstimateSource
	Reason     FallbackReason
	Reply      string
	TokensUsed TokenUsage
	Latency    time.Duration
}

// TokenUsage tracks LLM token consumption.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ChatCompletionRequest is the single-turn request sent to the LLM.
type ChatCompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

// ChatCompletionResponse holds the first choice of the LLM reply.
type ChatCompletionResponse struct {
	Content    string
	TokensUsed TokenUsage
}
