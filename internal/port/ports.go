// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/automation-roi-go/internal/domain"
)

// ChatCompleter sends a single-turn prompt to a chat-completion LLM.
type ChatCompleter interface {
	Complete(ctx context.Context, req *domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error)
}

// CostEstimator turns a project description into a cost estimate.
type CostEstimator interface {
	Estimate(ctx context.Context, description string) (*domain.Estimate, error)
}

// ROICalculator computes ROI metrics with fixed assumptions.
type ROICalculator interface {
	Calculate(ctx context.Context, in domain.ROIInputs) (*domain.ROIMetrics, error)
}
