package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/sermo/internal/models"
)

func TestFormatHistory(t *testing.T) {
	t.Run("empty log renders empty transcript", func(t *testing.T) {
		assert.Equal(t, "", FormatHistory(nil))
	})

	t.Run("renders human and ai turns in order", func(t *testing.T) {
		messages := []models.Message{
			models.NewHumanMessage("msg_1", "What is Go?"),
			models.NewAIMessage("msg_2", "A programming language."),
			models.NewHumanMessage("msg_3", "Who made it?"),
		}

		got := FormatHistory(messages)

		assert.Equal(t, "Human: What is Go?\nAI: A programming language.\nHuman: Who made it?\n", got)
	})

	t.Run("ai turns contribute the active alternative", func(t *testing.T) {
		ai := models.NewAIMessage("msg_2", "first answer")
		ai.AddAlternative("second answer")

		got := FormatHistory([]models.Message{ai})
		assert.Equal(t, "AI: second answer\n", got)

		assert.NoError(t, ai.SelectAlternative(0))
		got = FormatHistory([]models.Message{ai})
		assert.Equal(t, "AI: first answer\n", got)
	})
}
