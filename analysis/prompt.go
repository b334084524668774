package analysis

import (
	"fmt"

	"github.com/AVVKavvk/calls-qa/models"
)

// transcriptPrompt is sent ahead of a standalone question. It is a single
// line; the transcript goes between the quotes.
const transcriptPrompt = "I want you to answer questions based on a call transcript that I will provide." +
	"The call transcript has each participant's (a.k.a. party's) utterances labelled in the form of " +
	"'<time of utterance relative to call start> participant role (participant name): utterance'." +
	"When answering the questions do not include the < or > symbol around the time indicator." +
	"The transcript is as follows: '%s'."

// StandaloneMessage embeds transcript in the instruction prompt and appends
// question directly after it.
func StandaloneMessage(question, transcript string) string {
	return fmt.Sprintf(transcriptPrompt, transcript) + question
}

// StandaloneConversation is the single-message conversation for a question
// asked without history.
func StandaloneConversation(question, transcript string) []models.Message {
	return []models.Message{models.NewMessage(StandaloneMessage(question, transcript))}
}

// ConversationWithHistory returns q's history followed by q as a new user
// turn. The result never shares a backing array with q.ConversationHistory.
func ConversationWithHistory(q models.Question) []models.Message {
	conversation := make([]models.Message, 0, len(q.ConversationHistory)+1)
	conversation = append(conversation, q.ConversationHistory...)
	return append(conversation, models.NewMessage(q.Question))
}
