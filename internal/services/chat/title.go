package chat

import (
	"regexp"
	"strings"
)

// FallbackTitle is used when the first message yields no usable title
const FallbackTitle = "New Chat"

// titleCharset keeps word characters, whitespace and hyphens
var titleCharset = regexp.MustCompile(`[^\w\s-]`)

// DeriveTitle builds a session title from the first user message:
// punctuation stripped, truncated to 50 characters with an ellipsis,
// falling back to a default when too little survives.
func DeriveTitle(firstMessage string) string {
	title := strings.TrimSpace(titleCharset.ReplaceAllString(firstMessage, ""))
	if len(title) > 50 {
		title = title[:50] + "..."
	}
	if len(title) < 3 {
		return FallbackTitle
	}
	return title
}
