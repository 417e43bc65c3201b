package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
	"github.com/AphiweJoko/AgriAssist/internal/logger"
)

// Mode selects which OpenAI-compatible endpoint is called
type Mode string

const (
	ModeChat       Mode = "chat"
	ModeCompletion Mode = "completion"
)

// OpenAIConfig configures an OpenAI-compatible completion client
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Mode       Mode
	MaxRetries int
	HTTPClient *http.Client
	// Backoff returns the pause before retry number attempt (0-based)
	Backoff func(attempt int) time.Duration
}

// OpenAIClient talks to any OpenAI-compatible API (OpenAI, Cohere's
// compatibility endpoint, local gateways)
type OpenAIClient struct {
	client     *openai.Client
	mode       Mode
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// NewOpenAIClient creates a completion client
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing completion API key")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		clientConfig.HTTPClient = cfg.HTTPClient
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeChat
	}
	if mode != ModeChat && mode != ModeCompletion {
		return nil, fmt.Errorf("unsupported completion mode: %q", mode)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	backoff := cfg.Backoff
	if backoff == nil {
		backoff = func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		}
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(clientConfig),
		mode:       mode,
		maxRetries: maxRetries,
		backoff:    backoff,
	}, nil
}

// Complete submits the prompt, retrying transient failures (network errors,
// 429 and 5xx). Client errors are returned immediately.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", apperrors.NewValidationError("invalid completion request", ErrEmptyPrompt)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		text, err := c.once(ctx, req)
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", apperrors.NewTimeoutError("completion request timed out", lastErr)
		}
		if !isRetryable(err) || attempt == c.maxRetries-1 {
			break
		}

		logger.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"model":   req.Model,
			"mode":    c.mode,
		}).Warn("Completion request failed, retrying")

		select {
		case <-ctx.Done():
			return "", apperrors.NewTimeoutError("completion request timed out", lastErr)
		case <-time.After(c.backoff(attempt)):
		}
	}

	return "", apperrors.NewServiceError("completion request failed", lastErr)
}

func (c *OpenAIClient) once(ctx context.Context, req Request) (string, error) {
	var stop []string
	if len(req.StopSequences) > 0 {
		stop = req.StopSequences
	}

	if c.mode == ModeCompletion {
		resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
			Model:       req.Model,
			Prompt:      req.Prompt,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
			Stop:        stop,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrNoChoices
		}
		return resp.Choices[0].Text, nil
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stop:        stop,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrNoChoices) {
		return false
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	default:
		// Transport failures carry no status and are worth another try
		return true
	}

	return status == http.StatusTooManyRequests || status >= 500
}
