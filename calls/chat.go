package calls

import (
	"context"

	"github.com/AVVKavvk/calls-qa/analysis"
	"github.com/AVVKavvk/calls-qa/models"
)

// Chat is a conversation about one call whose history is kept server side.
// The first turn embeds the transcript, so later turns carry it along.
// A Chat is not safe for concurrent use.
type Chat struct {
	service *Service
	callID  string
	history []models.Message
}

func (s *Service) NewChat(callID string) *Chat {
	return &Chat{service: s, callID: callID}
}

// Ask answers question and records the turn. Turns that got no answer from
// the model are not recorded.
func (c *Chat) Ask(ctx context.Context, question string) (string, error) {
	if len(c.history) == 0 {
		transcript, err := c.service.Transcript(ctx, c.callID)
		if err != nil {
			return "", err
		}
		answer, err := c.service.Ask(ctx, c.callID, models.Question{Question: question})
		if err != nil {
			return "", err
		}
		c.record(analysis.StandaloneMessage(question, transcript), answer)
		return answer, nil
	}

	answer, err := c.service.Ask(ctx, c.callID, models.Question{
		Question:            question,
		ConversationHistory: c.history,
	})
	if err != nil {
		return "", err
	}
	c.record(question, answer)
	return answer, nil
}

// History returns a copy of the recorded turns.
func (c *Chat) History() []models.Message {
	return append([]models.Message(nil), c.history...)
}

func (c *Chat) record(question, answer string) {
	if answer == analysis.NoResponse {
		return
	}
	c.history = append(c.history,
		models.NewMessage(question),
		models.Message{Content: answer, Role: models.RoleAssistant},
	)
}
