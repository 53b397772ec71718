package state

import "time"

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one conversational turn. Immutable once created.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserMessage(content string, now time.Time) Message {
	return Message{Role: RoleUser, Content: content, CreatedAt: now.UTC()}
}

func NewAssistantMessage(content string, now time.Time) Message {
	return Message{Role: RoleAssistant, Content: content, CreatedAt: now.UTC()}
}

// TruncateHistory keeps the most recent max messages, preserving relative
// order. Evicted messages are never re-inserted.
func TruncateHistory(messages []Message, max int) []Message {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	return messages[len(messages)-max:]
}
