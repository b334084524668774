package models

import "encoding/json"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation with the model.
type Message struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// NewMessage returns a user message.
func NewMessage(content string) Message {
	return Message{Content: content, Role: RoleUser}
}

// UnmarshalJSON defaults a missing or empty role to "user".
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	*m = Message(p)
	return nil
}

// Question is a new question plus the conversation so far. An empty
// ConversationHistory means the question is standalone.
type Question struct {
	Question            string    `json:"question"`
	ConversationHistory []Message `json:"conversation_history"`
}

// Standalone reports whether the question carries no prior conversation.
func (q Question) Standalone() bool {
	return len(q.ConversationHistory) == 0
}
