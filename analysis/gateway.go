// Package analysis builds conversations about call transcripts and sends
// them to the language model.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/AVVKavvk/calls-qa/models"
)

const (
	// NoResponse is returned in place of an answer when the model call fails.
	NoResponse = "No response"

	// Role is the system prompt for every request.
	Role = "You are a sales call analysis expert"

	// ModelTokenLimit caps the output tokens requested per answer.
	ModelTokenLimit = 8192
)

// CompletionRequest is a single generation request.
type CompletionRequest struct {
	System      string
	Messages    []models.Message
	Temperature float64
	MaxTokens   int
}

// Provider is the remote model API.
type Provider interface {
	CountTokens(ctx context.Context, system string, messages []models.Message) (int, error)
	// CreateCompletion returns the text of each content block in order.
	CreateCompletion(ctx context.Context, req CompletionRequest) ([]string, error)
}

var errEmptyResponse = errors.New("model returned no content")

// RemoteError is a failure of one of the provider calls.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type Gateway struct {
	provider Provider
}

func NewGateway(provider Provider) *Gateway {
	return &Gateway{provider: provider}
}

// TokenBudget is the smaller of the measured token count and limit.
func TokenBudget(count, limit int) int {
	return min(count, limit)
}

// Complete counts tokens for messages, then asks for a deterministic
// completion bounded by that count. The last content block is the answer.
// Every error returned is a *RemoteError.
func (g *Gateway) Complete(ctx context.Context, messages []models.Message) (string, error) {
	count, err := g.provider.CountTokens(ctx, Role, messages)
	if err != nil {
		return "", &RemoteError{Op: "count tokens", Err: err}
	}

	blocks, err := g.provider.CreateCompletion(ctx, CompletionRequest{
		System:      Role,
		Messages:    messages,
		Temperature: 0,
		MaxTokens:   TokenBudget(count, ModelTokenLimit),
	})
	if err != nil {
		return "", &RemoteError{Op: "create completion", Err: err}
	}
	if len(blocks) == 0 {
		return "", &RemoteError{Op: "create completion", Err: errEmptyResponse}
	}
	return blocks[len(blocks)-1], nil
}

// Answer is Complete with failures replaced by NoResponse. Callers can only
// detect a failure by comparing against NoResponse; the error is logged.
func (g *Gateway) Answer(ctx context.Context, messages []models.Message) string {
	log.Printf("[INFO] sending %d messages to model", len(messages))

	answer, err := g.Complete(ctx, messages)
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		log.Printf("[ERROR] model %v", remoteErr)
		return NoResponse
	}
	return answer
}
