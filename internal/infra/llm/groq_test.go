package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/infra/llm"
	"github.com/boddenberg/automation-roi-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "llama-3.3-70b-versatile",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": " 8500 "}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 320, "completion_tokens": 3, "total_tokens": 323}
}`

func newRequest() *domain.ChatCompletionRequest {
	return &domain.ChatCompletionRequest{
		Model:        "llama-3.3-70b-versatile",
		SystemPrompt: "Sempre responda apenas com números.",
		UserPrompt:   "Estime o valor.",
		Temperature:  0.3,
		MaxTokens:    50,
	}
}

func newClient(url string) *llm.GroqClient {
	cb := resilience.NewCircuitBreaker("test-groq", zap.NewNop())
	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond}
	return llm.NewGroqClient(&http.Client{Timeout: 2 * time.Second}, url, "test-key", cb, cfg)
}

func TestGroqClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var body struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Model != "llama-3.3-70b-versatile" {
			t.Errorf("unexpected model %q", body.Model)
		}
		if body.MaxTokens != 50 {
			t.Errorf("expected max_tokens 50, got %d", body.MaxTokens)
		}
		if body.Temperature < 0.29 || body.Temperature > 0.31 {
			t.Errorf("expected temperature 0.3, got %f", body.Temperature)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
	defer server.Close()

	resp, err := newClient(server.URL).Complete(context.Background(), newRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Content != " 8500 " {
		t.Errorf("expected raw content ' 8500 ', got %q", resp.Content)
	}
	if resp.TokensUsed.PromptTokens != 320 || resp.TokensUsed.CompletionTokens != 3 {
		t.Errorf("unexpected token usage %+v", resp.TokensUsed)
	}
}

func TestGroqClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Complete(context.Background(), newRequest())

	var extErr *domain.ErrExternalService
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if extErr.Service != "groq" {
		t.Errorf("expected service groq, got %q", extErr.Service)
	}
}

func TestGroqClient_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [`))
	}))
	defer server.Close()

	if _, err := newClient(server.URL).Complete(context.Background(), newRequest()); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestGroqClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	if _, err := newClient(server.URL).Complete(context.Background(), newRequest()); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestGroqClient_Complete_UnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("test-groq", zap.NewNop())
	cfg := resilience.Config{MaxRetries: 3, InitialBackoff: time.Millisecond}
	client := llm.NewGroqClient(&http.Client{Timeout: 2 * time.Second}, server.URL, "bad", cb, cfg)

	if _, err := client.Complete(context.Background(), newRequest()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call for 401, got %d", calls.Load())
	}
}

func TestGroqClient_Complete_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newClient(server.URL)
	for i := 0; i < 5; i++ {
		_, _ = client.Complete(context.Background(), newRequest())
	}
	if client.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", client.State())
	}

	before := calls.Load()
	_, err := client.Complete(context.Background(), newRequest())

	var open *domain.ErrCircuitOpen
	if !errors.As(err, &open) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls.Load() != before {
		t.Error("open breaker must not reach the upstream")
	}
}

func TestGroqClient_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(completionBody))
	}))
	defer server.Close()

	cb := resilience.NewCircuitBreaker("test-groq", zap.NewNop())
	client := llm.NewGroqClient(&http.Client{Timeout: 20 * time.Millisecond}, server.URL, "k", cb, resilience.Config{})

	_, err := client.Complete(context.Background(), newRequest())

	var timeout *domain.ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
