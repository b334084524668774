package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/AVVKavvk/calls-qa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countCall struct {
	system   string
	messages []models.Message
}

type fakeProvider struct {
	count      int
	countErr   error
	blocks     []string
	createErr  error
	countCalls []countCall
	requests   []CompletionRequest
}

func (f *fakeProvider) CountTokens(_ context.Context, system string, messages []models.Message) (int, error) {
	f.countCalls = append(f.countCalls, countCall{system: system, messages: messages})
	return f.count, f.countErr
}

func (f *fakeProvider) CreateCompletion(_ context.Context, req CompletionRequest) ([]string, error) {
	f.requests = append(f.requests, req)
	return f.blocks, f.createErr
}

func TestTokenBudget(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{0, ModelTokenLimit, 0},
		{100, ModelTokenLimit, 100},
		{ModelTokenLimit, ModelTokenLimit, ModelTokenLimit},
		{ModelTokenLimit + 1, ModelTokenLimit, ModelTokenLimit},
		{50000, 10, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TokenBudget(tt.count, tt.limit))
	}
}

func TestAnswerStandalone(t *testing.T) {
	provider := &fakeProvider{count: ModelTokenLimit, blocks: []string{"answer"}}
	analyst := NewAnalyst(NewGateway(provider))

	answer := analyst.AskStandalone(context.Background(), models.Question{Question: "question"}, "transcript")
	assert.Equal(t, "answer", answer)

	expected := []models.Message{{Content: StandaloneMessage("question", "transcript"), Role: models.RoleUser}}
	require.Len(t, provider.countCalls, 1)
	assert.Equal(t, Role, provider.countCalls[0].system)
	assert.Equal(t, expected, provider.countCalls[0].messages)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, CompletionRequest{
		System:      Role,
		Messages:    expected,
		Temperature: 0,
		MaxTokens:   ModelTokenLimit,
	}, provider.requests[0])
}

func TestAnswerWithHistory(t *testing.T) {
	provider := &fakeProvider{count: 12, blocks: []string{"answer"}}
	analyst := NewAnalyst(NewGateway(provider))

	q := models.Question{
		Question: "question",
		ConversationHistory: []models.Message{
			models.NewMessage("previous_question"),
			{Content: "response_to_previous_question", Role: models.RoleAssistant},
		},
	}
	expected := append(append([]models.Message{}, q.ConversationHistory...), models.NewMessage("question"))

	answer := analyst.AskWithHistory(context.Background(), q)
	assert.Equal(t, "answer", answer)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, expected, provider.countCalls[0].messages)
	assert.Equal(t, expected, provider.requests[0].Messages)
	assert.Equal(t, 12, provider.requests[0].MaxTokens)
	assert.Len(t, q.ConversationHistory, 2)
}

func TestAnswerClampsBudget(t *testing.T) {
	provider := &fakeProvider{count: 3 * ModelTokenLimit, blocks: []string{"a"}}
	NewGateway(provider).Answer(context.Background(), []models.Message{models.NewMessage("q")})

	require.Len(t, provider.requests, 1)
	assert.Equal(t, ModelTokenLimit, provider.requests[0].MaxTokens)
}

func TestAnswerUsesLastBlock(t *testing.T) {
	provider := &fakeProvider{count: 1, blocks: []string{"thinking", "final"}}
	assert.Equal(t, "final", NewGateway(provider).Answer(context.Background(), []models.Message{models.NewMessage("q")}))
}

func TestAnswerReturnsSentinelOnFailure(t *testing.T) {
	boom := errors.New("something went wrong")
	tests := []struct {
		name     string
		provider *fakeProvider
		requests int
	}{
		{"count tokens fails", &fakeProvider{countErr: boom, blocks: []string{"answer"}}, 0},
		{"completion fails", &fakeProvider{count: 5, createErr: boom}, 1},
		{"empty completion", &fakeProvider{count: 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyst := NewAnalyst(NewGateway(tt.provider))
			answer := analyst.AskStandalone(context.Background(), models.Question{Question: "question"}, "")
			assert.Equal(t, NoResponse, answer)
			assert.Len(t, tt.provider.requests, tt.requests)
		})
	}
}

func TestCompleteReturnsRemoteError(t *testing.T) {
	boom := errors.New("rate limited")
	_, err := NewGateway(&fakeProvider{countErr: boom}).Complete(context.Background(), nil)

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, "count tokens", remoteErr.Op)
	assert.True(t, errors.Is(err, boom))
}
