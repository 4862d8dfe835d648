// Package llm adapts OpenAI-compatible chat-completion APIs (Groq) to the
// port.ChatCompleter interface.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/resilience"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("llm")

const serviceName = "groq"

// GroqClient calls the Groq chat completions endpoint.
type GroqClient struct {
	client *openai.Client
	cb     *gobreaker.CircuitBreaker
	cfg    resilience.Config
}

// NewGroqClient creates a client for baseURL (e.g. https://api.groq.com/openai/v1).
func NewGroqClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *GroqClient {
	oc := openai.DefaultConfig(apiKey)
	oc.BaseURL = strings.TrimRight(baseURL, "/")
	oc.HTTPClient = httpClient

	return &GroqClient{
		client: openai.NewClientWithConfig(oc),
		cb:     cb,
		cfg:    cfg,
	}
}

// State reports the circuit breaker state, used by /healthz.
func (c *GroqClient) State() gobreaker.State {
	return c.cb.State()
}

// Complete sends one system + user message pair and returns the first choice.
func (c *GroqClient) Complete(ctx context.Context, req *domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	ctx, span := tracer.Start(ctx, "GroqClient.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	)

	result, err := c.cb.Execute(func() (any, error) {
		var completion openai.ChatCompletionResponse
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model: req.Model,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
					{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
				},
				Temperature: req.Temperature,
				MaxTokens:   req.MaxTokens,
			})
			if err != nil {
				if isClientError(err) {
					return resilience.Permanent(err)
				}
				return err
			}
			completion = resp
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		if len(completion.Choices) == 0 {
			return nil, errors.New("completion returned no choices")
		}

		return &domain.ChatCompletionResponse{
			Content: completion.Choices[0].Message.Content,
			TokensUsed: domain.TokenUsage{
				PromptTokens:     completion.Usage.PromptTokens,
				CompletionTokens: completion.Usage.CompletionTokens,
				TotalTokens:      completion.Usage.TotalTokens,
			},
		}, nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, classify(err)
	}

	out := result.(*domain.ChatCompletionResponse)
	span.SetAttributes(attribute.Int("llm.total_tokens", out.TokensUsed.TotalTokens))
	return out, nil
}

// isClientError reports 4xx answers other than 429, which retrying cannot fix.
func isClientError(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}

func classify(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: serviceName}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.ErrTimeout{Operation: fmt.Sprintf("%s chat completion", serviceName)}
	}
	return &domain.ErrExternalService{Service: serviceName, Err: err}
}
