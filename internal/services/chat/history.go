package chat

import (
	"strings"

	"github.com/ternarybob/sermo/internal/models"
)

// FormatHistory renders a message log as the plain-text transcript the
// model sees. AI messages contribute their active alternative.
func FormatHistory(messages []models.Message) string {
	var sb strings.Builder
	for i := range messages {
		msg := &messages[i]
		switch msg.Type {
		case models.MessageTypeHuman:
			sb.WriteString("Human: ")
			sb.WriteString(msg.Content)
			sb.WriteByte('\n')
		case models.MessageTypeAI:
			sb.WriteString("AI: ")
			sb.WriteString(msg.ActiveContent())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
