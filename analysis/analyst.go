package analysis

import (
	"context"

	"github.com/AVVKavvk/calls-qa/models"
)

// Analyst answers questions about call transcripts.
type Analyst struct {
	gateway *Gateway
}

func NewAnalyst(gateway *Gateway) *Analyst {
	return &Analyst{gateway: gateway}
}

// AskStandalone answers q using transcript as the only context. Any history
// on q is ignored.
func (a *Analyst) AskStandalone(ctx context.Context, q models.Question, transcript string) string {
	return a.gateway.Answer(ctx, StandaloneConversation(q.Question, transcript))
}

// AskWithHistory answers q as the next turn of its conversation history.
func (a *Analyst) AskWithHistory(ctx context.Context, q models.Question) string {
	return a.gateway.Answer(ctx, ConversationWithHistory(q))
}
