package completion

import (
	"context"
	"errors"
)

// Request is a single prompt submitted to the text-completion service
type Request struct {
	Model         string
	Prompt        string
	MaxTokens     int
	Temperature   float32
	TopK          int // 0 disables top-k filtering
	StopSequences []string
}

// Client generates text for a prompt. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts an ordinary function to the Client interface
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f(ctx, req)
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

var (
	// ErrEmptyPrompt is returned when the prompt is blank
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrNoChoices is returned when the service answered without any generation
	ErrNoChoices = errors.New("completion service returned no generations")
)
