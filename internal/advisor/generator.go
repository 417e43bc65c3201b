package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AphiweJoko/AgriAssist/internal/completion"
	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
)

// Sampling parameters for each kind of generation
type Sampling struct {
	MaxTokens     int
	Temperature   float32
	TopK          int
	StopSequences []string
}

var (
	// AdviceSampling allows longer, more varied answers
	AdviceSampling = Sampling{MaxTokens: 500, Temperature: 0.7, TopK: 0}

	// FollowUpSampling keeps the question list short and focused
	FollowUpSampling = Sampling{MaxTokens: 300, Temperature: 0.5}
)

// Generator submits prompts to the text-completion service under a
// per-call timeout
type Generator struct {
	client  completion.Client
	model   string
	timeout time.Duration
}

// NewGenerator creates a generator. A zero timeout leaves the caller's
// context deadline in charge.
func NewGenerator(client completion.Client, model string, timeout time.Duration) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	return &Generator{client: client, model: model, timeout: timeout}, nil
}

// GenerateAdvice returns professional care advice for a problem description
func (g *Generator) GenerateAdvice(ctx context.Context, problem string) (string, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return "", apperrors.NewValidationError("problem description is empty", nil)
	}
	return g.generate(ctx, AdvicePrompt(problem), AdviceSampling)
}

// GenerateFollowUp returns follow-up questions for a diagnosis, prefixed with
// FollowUpPrefix
func (g *Generator) GenerateFollowUp(ctx context.Context, diagnosis string) (string, error) {
	diagnosis = strings.TrimSpace(diagnosis)
	if diagnosis == "" {
		return "", apperrors.NewValidationError("diagnosis is empty", nil)
	}
	text, err := g.generate(ctx, FollowUpPrompt(diagnosis), FollowUpSampling)
	if err != nil {
		return "", err
	}
	return FollowUpPrefix + text, nil
}

func (g *Generator) generate(ctx context.Context, prompt string, sampling Sampling) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.client.Complete(ctx, completion.Request{
		Model:         g.model,
		Prompt:        prompt,
		MaxTokens:     sampling.MaxTokens,
		Temperature:   sampling.Temperature,
		TopK:          sampling.TopK,
		StopSequences: sampling.StopSequences,
	})
	if err != nil {
		var appErr *apperrors.AppError
		switch {
		case errors.As(err, &appErr):
			return "", err
		case errors.Is(err, context.DeadlineExceeded):
			return "", apperrors.NewTimeoutError("completion request timed out", err)
		default:
			return "", apperrors.NewServiceError("completion request failed", err)
		}
	}
	return strings.TrimSpace(text), nil
}
