package analysis

import (
	"context"
	"time"

	"github.com/AVVKavvk/calls-qa/models"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-20241022"

type AnthropicConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// AnthropicProvider is a Provider backed by the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

func (p *AnthropicProvider) CountTokens(ctx context.Context, system string, messages []models.Message) (int, error) {
	res, err := p.client.Messages.CountTokens(ctx, anthropic.MessageCountTokensParams{
		Model:    p.model,
		Messages: toMessageParams(messages),
		System: anthropic.MessageCountTokensParamsSystemUnion{
			OfString: anthropic.String(system),
		},
	})
	if err != nil {
		return 0, err
	}
	return int(res.InputTokens), nil
}

func (p *AnthropicProvider) CreateCompletion(ctx context.Context, req CompletionRequest) ([]string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    toMessageParams(req.Messages),
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Temperature: anthropic.Float(req.Temperature),
		MaxTokens:   int64(req.MaxTokens),
	})
	if err != nil {
		return nil, err
	}

	blocks := make([]string, 0, len(msg.Content))
	for _, block := range msg.Content {
		blocks = append(blocks, block.Text)
	}
	return blocks, nil
}

// The Messages API only knows user and assistant turns.
func toMessageParams(messages []models.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == models.RoleAssistant {
			params = append(params, anthropic.NewAssistantMessage(block))
			continue
		}
		params = append(params, anthropic.NewUserMessage(block))
	}
	return params
}
