package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenRouterConfig holds configuration for the OpenRouter backend.
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration

	// Rate limiting and transport retries. Transport retries cover HTTP
	// level failures only; content-level correction belongs to the
	// extraction loop.
	RequestsPerMinute int
	MaxRetries        int
	RetryDelay        time.Duration
}

// OpenRouterClient is a Generator backed by the OpenRouter chat API.
type OpenRouterClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	client       *http.Client
	limiter      *RateLimiter
	maxRetries   int
	retryDelay   time.Duration
	logger       *slog.Logger
}

// NewOpenRouterClient creates a new OpenRouter backend.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 150
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	return &OpenRouterClient{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      NewRateLimiter(cfg.RequestsPerMinute),
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		logger:       slog.Default(),
	}
}

// Name returns the backend identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// Generate sends a chat completion request and returns the decoded response
// body. Retryable HTTP failures (429, 5xx, network errors) are retried with
// exponential backoff before giving up.
func (c *OpenRouterClient) Generate(ctx context.Context, req *GenerateRequest) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	payload, err := json.Marshal(map[string]any{
		"model":       model,
		"messages":    req.Messages,
		"temperature": req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	body, err := retry.DoWithData(
		func() ([]byte, error) { return c.post(ctx, "/chat/completions", payload, requestID) },
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxJitter(c.retryDelay/2),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if apiErr, ok := decoded["error"].(map[string]any); ok {
		return nil, fmt.Errorf("openrouter API error: %v", apiErr["message"])
	}

	c.logger.Debug("openrouter completion",
		"request_id", requestID,
		"model", model,
		"elapsed", time.Since(start),
	)
	return decoded, nil
}

func (c *OpenRouterClient) post(ctx context.Context, path string, payload []byte, requestID string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode, body: string(body)}
	}
	return body, nil
}

// transportError wraps a network-level failure; always retryable.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return fmt.Sprintf("request failed: %v", e.err) }
func (e *transportError) Unwrap() error { return e.err }

// statusError is a non-200 HTTP response.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openrouter error (status %d): %s", e.status, e.body)
}

func isRetryable(err error) bool {
	switch e := err.(type) {
	case *transportError:
		return true
	case *statusError:
		switch e.status {
		case http.StatusTooManyRequests:
			return true
		case 520, 521, 522, 523, 524: // Cloudflare errors
			return true
		default:
			return e.status >= 500
		}
	default:
		return false
	}
}

var _ Generator = (*OpenRouterClient)(nil)
