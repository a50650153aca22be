package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const OpenAIName = "openai"

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey            string
	BaseURL           string // optional, for OpenAI-compatible servers
	DefaultModel      string
	RequestsPerMinute int
}

// OpenAIClient is a Generator backed by the OpenAI chat completions API via
// the official SDK. The SDK handles transport-level retries itself.
type OpenAIClient struct {
	client       openai.Client
	defaultModel string
	limiter      *RateLimiter
	logger       *slog.Logger
}

// NewOpenAIClient creates a new OpenAI backend.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 150
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		defaultModel: cfg.DefaultModel,
		limiter:      NewRateLimiter(cfg.RequestsPerMinute),
		logger:       slog.Default(),
	}
}

// Name returns the backend identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Generate sends a chat completion request and returns the decoded provider
// response so the normalizer can locate the payload.
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(resp.RawJSON()), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("openai completion",
		"model", model,
		"elapsed", time.Since(start),
	)
	return decoded, nil
}

var _ Generator = (*OpenAIClient)(nil)
