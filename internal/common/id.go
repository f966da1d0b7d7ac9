package common

import (
	"github.com/google/uuid"
)

// NewSessionID generates a unique session ID with the "ses_" prefix
// Format: ses_<uuid>
func NewSessionID() string {
	return "ses_" + uuid.New().String()
}

// NewMessageID generates a unique message ID with the "msg_" prefix
// Format: msg_<uuid>
func NewMessageID() string {
	return "msg_" + uuid.New().String()
}
