package answer

import (
	"fmt"
	"strings"
)

// groundedSystemPrompt instructs the model when the session corpus
// produced retrieval context.
const groundedSystemPrompt = `You are a smart, friendly, and helpful personal assistant. Your task is to chat with the user naturally and answer their questions.
1. DOCUMENT-BASED ANSWERING: When documents are available, use them to provide accurate answers
2. GENERAL KNOWLEDGE: When no documents are available or they aren't relevant, use your general knowledge
3. CONVERSATIONAL ABILITIES: Engage in friendly conversation, respond to greetings, and handle small talk
4. NAME RECOGNITION: When a user introduces themselves, acknowledge their name and use it appropriately
5. DOCUMENT EXPLANATION: When asked to explain or summarize documents, provide a comprehensive overview`

// generalSystemPrompt is the fallback when no corpus text is available
const generalSystemPrompt = `You are a smart, friendly, and helpful personal assistant. Your task is to chat with the user naturally and answer their questions using your general knowledge since no documents were provided.`

// buildUserPrompt assembles the turn content the model sees
func buildUserPrompt(question, history, context string) string {
	var sb strings.Builder
	sb.WriteString("Chat History:\n")
	sb.WriteString(history)
	sb.WriteString("\n\n")
	if context != "" {
		sb.WriteString("Context:\n")
		sb.WriteString(context)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}

// buildRegenerationQuestion wraps the original question with instructions
// to produce a materially different alternative.
func buildRegenerationQuestion(question string, priorAttempts int) string {
	return fmt.Sprintf(`Please provide an alternative response to the user's question.
- Generate a different perspective or approach compared to previous responses
- Maintain accuracy and relevance to the documents
- Keep the same helpful and conversational tone
- Avoid repeating the exact same information in the same way

Previous responses given: %d
User's original question: %s

Original Question: %s`, priorAttempts, question, question)
}
