package provider

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// NormalizeContent collapses a model response into a single plain-text string.
// Some backends (Gemini in particular) return content as an ordered sequence
// of parts instead of one string; callers depend on receiving plain text, so
// the gateway joins text parts with a single space in original order.
func NormalizeContent(msg *schema.Message) string {
	if msg == nil {
		return ""
	}
	if len(msg.MultiContent) == 0 {
		return msg.Content
	}

	parts := make([]string, 0, len(msg.MultiContent))
	for _, part := range msg.MultiContent {
		if part.Type == schema.ChatMessagePartTypeText && part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	if len(parts) == 0 {
		return msg.Content
	}
	return strings.Join(parts, " ")
}
